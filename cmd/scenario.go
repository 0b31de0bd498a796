package cmd

import (
	"fmt"

	"github.com/aerotechavionics/ehms/bus"
	"github.com/aerotechavionics/ehms/collector"
	"github.com/aerotechavionics/ehms/model"
)

// Scenario drives the bus simulators with a nominal flight profile plus
// an optional injected fault, for bench runs without avionics hardware.
type Scenario struct {
	serial *bus.SimSerial
	mux    *bus.SimMux
	name   string
	tick   int
}

// nominalRaw holds steady-state raw values per parameter.
var nominalRaw = map[model.ParamID]uint32{
	model.ParamN1:         850,  // 85.0 %
	model.ParamN2:         920,  // 92.0 %
	model.ParamEGT:        620,  // 620 °C
	model.ParamFF:         8500, // 850.0 lb/hr
	model.ParamOilTemp:    240,  // 80 °C
	model.ParamOilPress:   550,  // 55.0 PSI
	model.ParamOilQty:     160,  // 80 %
	model.ParamEPR:        1450, // 1.450
	model.ParamITT:        700,  // 700 °C
	model.ParamThrust:     2400, // 24000 lbf
	model.ParamBleedPress: 320,  // 32.0 PSI
	model.ParamBleedTemp:  440,  // 180 °C
}

var nominalMux = map[model.ParamID]uint16{
	model.ParamVibFan:     1200, // 1.2 IPS
	model.ParamVibCore:    900,  // 0.9 IPS
	model.ParamStartValve: 0,
	model.ParamFuelValve:  1,
}

// scenarioNames lists the supported -scenario values.
var scenarioNames = []string{"nominal", "egt-caution", "oil-press", "bus-failure"}

// NewScenario validates the name and primes the simulators with the
// nominal profile.
func NewScenario(name string, serial *bus.SimSerial, mux *bus.SimMux) (*Scenario, error) {
	ok := false
	for _, n := range scenarioNames {
		if n == name {
			ok = true
			break
		}
	}
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (have %v)", name, scenarioNames)
	}
	s := &Scenario{serial: serial, mux: mux, name: name}
	s.applyNominal()
	return s, nil
}

func (s *Scenario) applyNominal() {
	for id, raw := range nominalRaw {
		label, primary, backup, ok := collector.SerialLabel(id)
		if !ok {
			continue
		}
		s.serial.Set(primary, label, raw)
		s.serial.Set(backup, label, raw)
	}
	for id, raw := range nominalMux {
		sub, word, ok := collector.MuxWord(id)
		if !ok {
			continue
		}
		s.mux.SetWord(sub, word, raw)
	}
}

// Step advances the scenario by one tick.
func (s *Scenario) Step() {
	s.tick++
	switch s.name {
	case "egt-caution":
		// EGT rises past the 950 °C caution gate after five seconds.
		if s.tick > 500 {
			s.setSerial(model.ParamEGT, 965)
		}
	case "oil-press":
		// Oil pressure collapses below the 15 PSI warning gate.
		if s.tick > 500 {
			s.setSerial(model.ParamOilPress, 140)
		}
	case "bus-failure":
		// Bus 0 dies; its parameters fail over to backup bus 1.
		if s.tick == 300 {
			s.serial.FailBus(0, bus.Hardware)
		}
	}
}

func (s *Scenario) setSerial(id model.ParamID, raw uint32) {
	label, primary, backup, ok := collector.SerialLabel(id)
	if !ok {
		return
	}
	s.serial.Set(primary, label, raw)
	s.serial.Set(backup, label, raw)
}

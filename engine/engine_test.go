package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/aerotechavionics/ehms/bus"
	"github.com/aerotechavionics/ehms/clock"
	"github.com/aerotechavionics/ehms/collector"
	"github.com/aerotechavionics/ehms/config"
	"github.com/aerotechavionics/ehms/model"
)

var coreStart = time.Date(2025, time.May, 20, 14, 30, 0, 0, time.UTC)

func primeBuses(serial *bus.SimSerial, mux *bus.SimMux) {
	raws := map[model.ParamID]uint32{
		model.ParamN1: 850, model.ParamN2: 920, model.ParamEGT: 620,
		model.ParamFF: 8500, model.ParamOilTemp: 240, model.ParamOilPress: 550,
		model.ParamOilQty: 160, model.ParamEPR: 1450, model.ParamITT: 700,
		model.ParamThrust: 2400, model.ParamBleedPress: 320, model.ParamBleedTemp: 440,
	}
	for id, raw := range raws {
		label, primary, backup, ok := collector.SerialLabel(id)
		if !ok {
			continue
		}
		serial.Set(primary, label, raw)
		serial.Set(backup, label, raw)
	}
	mux.SetWord(5, 0, 1200)
	mux.SetWord(5, 1, 900)
	mux.SetWord(6, 0, 0)
	mux.SetWord(6, 1, 1)
}

func setSerial(serial *bus.SimSerial, id model.ParamID, raw uint32) {
	label, primary, backup, _ := collector.SerialLabel(id)
	serial.Set(primary, label, raw)
	serial.Set(backup, label, raw)
}

// recordingReporter captures error-handler reports.
type recordingReporter struct {
	modules []string
	codes   []uint16
	args    []uint32
}

func (r *recordingReporter) Report(module string, _ Severity, code uint16, arg uint32) {
	r.modules = append(r.modules, module)
	r.codes = append(r.codes, code)
	r.args = append(r.args, arg)
}

func newTestCore(t *testing.T) (*Core, *clock.Manual, *bus.SimSerial, *bus.SimMux, *recordingReporter) {
	t.Helper()
	clk := clock.NewManual(coreStart)
	serial := bus.NewSimSerial()
	mux := bus.NewSimMux()
	primeBuses(serial, mux)

	reporter := &recordingReporter{}
	cfg := config.Default()
	core, err := NewCore(cfg, clk, serial, mux, Options{Reporter: reporter})
	if err != nil {
		t.Fatal(err)
	}
	return core, clk, serial, mux, reporter
}

func tickN(t *testing.T, core *Core, clk *clock.Manual, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		clk.Advance(10 * time.Millisecond)
		if err := core.Tick(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestNominalTick(t *testing.T) {
	core, clk, _, _, _ := newTestCore(t)
	tickN(t, core, clk, 1)

	if core.State() != model.StateNormal {
		t.Fatalf("state = %v, want NORMAL", core.State())
	}
	snap, err := core.Snapshot(0)
	if err != nil {
		t.Fatal(err)
	}
	n1 := snap.Parameters[model.ParamN1]
	if n1.Status != model.StatusValid || n1.EngValue != 85.0 {
		t.Fatalf("N1 = %v %v, want VALID 85.0", n1.Status, n1.EngValue)
	}
	if snap.HealthStatus != model.HealthNormal {
		t.Errorf("health = %v, want NORMAL", snap.HealthStatus)
	}
	if core.Alerts().ActiveCount() != 0 {
		t.Errorf("active alerts = %d on nominal data", core.Alerts().ActiveCount())
	}
}

func TestEGTCautionEndToEnd(t *testing.T) {
	core, clk, serial, _, _ := newTestCore(t)
	tickN(t, core, clk, 1)

	setSerial(serial, model.ParamEGT, 965)

	// Two ticks of exceedance: debounce holds the alert back.
	tickN(t, core, clk, 2)
	if core.Alerts().ActiveCount() != 0 {
		t.Fatalf("alert raised before debounce elapsed")
	}

	// Third tick raises one caution per configured engine.
	tickN(t, core, clk, 1)
	if got := core.Alerts().ActiveCount(); got != core.EngineCount() {
		t.Fatalf("active alerts = %d, want %d", got, core.EngineCount())
	}
	if !core.Alerts().MasterCaution() {
		t.Fatal("master caution not set")
	}

	snap, err := core.Snapshot(0)
	if err != nil {
		t.Fatal(err)
	}
	if snap.HealthStatus != model.HealthCaution {
		t.Errorf("health = %v, want CAUTION", snap.HealthStatus)
	}

	// Recovery past the hysteresis band clears the cautions.
	setSerial(serial, model.ParamEGT, 920) // 920 °C ≤ 931 = 950 * 0.98
	tickN(t, core, clk, 3)
	if core.Alerts().ActiveCount() != 0 {
		t.Fatalf("active alerts = %d after recovery, want 0", core.Alerts().ActiveCount())
	}
}

func TestOilPressureWarningLatches(t *testing.T) {
	core, clk, serial, _, _ := newTestCore(t)
	tickN(t, core, clk, 1)

	setSerial(serial, model.ParamOilPress, 140) // 14.0 PSI
	tickN(t, core, clk, 3)

	if !core.Alerts().MasterWarning() {
		t.Fatal("master warning not set")
	}
	snap, _ := core.Snapshot(0)
	if snap.HealthStatus != model.HealthCritical {
		t.Errorf("health = %v, want CRITICAL", snap.HealthStatus)
	}

	// Recovery: the latched warnings stay active.
	setSerial(serial, model.ParamOilPress, 300) // 30.0 PSI
	tickN(t, core, clk, 10)

	var buf [model.MaxActiveAlerts]model.Alert
	warnings := 0
	for _, a := range core.Alerts().Active(buf[:]) {
		if a.Level == model.AlertWarning {
			warnings++
		}
	}
	if warnings != core.EngineCount() {
		t.Fatalf("latched warnings = %d, want %d", warnings, core.EngineCount())
	}

	core.Acknowledge(model.AlertWarning)
	if core.Alerts().MasterWarning() {
		t.Error("master warning survived acknowledge")
	}
	if got := core.Alerts().ActiveCount(); got < core.EngineCount() {
		t.Errorf("acknowledge removed latched alerts: %d active", got)
	}
}

func TestBusFailoverStatistics(t *testing.T) {
	core, clk, serial, _, _ := newTestCore(t)
	serial.FailBus(0, bus.Hardware)
	tickN(t, core, clk, 6)

	sources := core.Sources()
	if sources[0].Active {
		t.Error("bus 0 still active after sustained failures")
	}
	if sources[0].ConsecutiveFailures < model.MaxConsecutiveFailures {
		t.Errorf("bus 0 failures = %d", sources[0].ConsecutiveFailures)
	}

	// Data still flows from the backup bus.
	p, err := core.Parameter(0, model.ParamN1)
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != model.StatusValid || p.SourceBus != 1 {
		t.Fatalf("N1 = %v from bus %d, want VALID from backup 1", p.Status, p.SourceBus)
	}

	if err := core.ResetSource(0); err != nil {
		t.Fatal(err)
	}
	if !core.Sources()[0].Active {
		t.Error("reset did not reactivate bus 0")
	}
}

// crcFaultAcquirer fails the CRC barrier for one engine.
type crcFaultAcquirer struct {
	Acquirer
	faulted model.EngineID
}

func (c *crcFaultAcquirer) Snapshot(engine model.EngineID) (model.Snapshot, error) {
	if engine == c.faulted {
		return model.Snapshot{}, model.ErrCrcMismatch
	}
	return c.Acquirer.Snapshot(engine)
}

func TestCrcMismatchSkipsAlerting(t *testing.T) {
	clk := clock.NewManual(coreStart)
	serial := bus.NewSimSerial()
	mux := bus.NewSimMux()
	primeBuses(serial, mux)

	// Engine 1 reads a persistent exceedance, but its snapshot fails the
	// CRC barrier: no alert may be produced from it.
	setSerial(serial, model.ParamEGT, 1010)

	limits := collector.DefaultLimits()
	daq, err := collector.New(clk, serial, mux, collector.Config{EngineCount: 2, SampleRateHz: 100}, limits)
	if err != nil {
		t.Fatal(err)
	}

	reporter := &recordingReporter{}
	cfg := config.Default()
	cfg.DebounceCycles = 1
	core, err := NewCoreWith(&crcFaultAcquirer{Acquirer: daq, faulted: 1}, cfg, Options{Reporter: reporter})
	if err != nil {
		t.Fatal(err)
	}

	clk.Advance(10 * time.Millisecond)
	if err := core.Tick(); err != nil {
		t.Fatalf("Tick = %v, want recoverable handling", err)
	}

	// Engine 0 alerted; engine 1 was skipped and reported.
	var buf [model.MaxActiveAlerts]model.Alert
	for _, a := range core.Alerts().Active(buf[:]) {
		if a.EngineID == 1 {
			t.Fatalf("alert raised from a corrupt snapshot: %+v", a)
		}
	}
	found := false
	for i, code := range reporter.codes {
		if code == CodeCrcMismatch && reporter.args[i] == 1 {
			found = true
		}
	}
	if !found {
		t.Fatal("CRC mismatch not reported to the error handler")
	}
}

// brokenAcquirer fails structurally to exercise the Fault transition.
type brokenAcquirer struct{ Acquirer }

func (brokenAcquirer) BeginCycle() error { return model.ErrNotInitialized }

func TestFaultStateRefusesTicks(t *testing.T) {
	cfg := config.Default()
	core, err := NewCoreWith(brokenAcquirer{}, cfg, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if err := core.Tick(); !errors.Is(err, model.ErrNotInitialized) {
		t.Fatalf("first Tick = %v, want ErrNotInitialized", err)
	}
	if core.State() != model.StateFault {
		t.Fatalf("state = %v, want FAULT", core.State())
	}
	if err := core.Tick(); !errors.Is(err, model.ErrFault) {
		t.Fatalf("second Tick = %v, want ErrFault", err)
	}
}

func TestNewCoreValidatesConfig(t *testing.T) {
	clk := clock.NewManual(coreStart)
	serial := bus.NewSimSerial()
	mux := bus.NewSimMux()

	cfg := config.Default()
	cfg.EngineCount = 9
	if _, err := NewCore(cfg, clk, serial, mux, Options{}); !errors.Is(err, model.ErrOutOfRange) {
		t.Fatalf("NewCore = %v, want ErrOutOfRange", err)
	}
}

func TestHealthMapping(t *testing.T) {
	tests := []struct {
		level model.AlertLevel
		want  model.HealthStatus
	}{
		{model.AlertNone, model.HealthNormal},
		{model.AlertStatus, model.HealthMonitor},
		{model.AlertAdvisory, model.HealthMonitor},
		{model.AlertCaution, model.HealthCaution},
		{model.AlertWarning, model.HealthCritical},
	}
	for _, tt := range tests {
		if got := healthFor(tt.level); got != tt.want {
			t.Errorf("healthFor(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

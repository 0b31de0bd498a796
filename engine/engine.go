package engine

import (
	"errors"
	"sync"

	"github.com/aerotechavionics/ehms/bus"
	"github.com/aerotechavionics/ehms/clock"
	"github.com/aerotechavionics/ehms/collector"
	"github.com/aerotechavionics/ehms/config"
	"github.com/aerotechavionics/ehms/model"
)

// Acquirer is the snapshot source the core drives each tick. The
// collector's DAQ is the production implementation.
type Acquirer interface {
	BeginCycle() error
	AcquireEngine(engine model.EngineID) error
	Snapshot(engine model.EngineID) (model.Snapshot, error)
	Parameter(engine model.EngineID, param model.ParamID) (model.Parameter, error)
	SetHealth(engine model.EngineID, health model.HealthStatus) error
	Statistics() model.Statistics
	Sources() [model.SerialBusCount]model.SourceInfo
	ResetSource(busID uint8) error
	EngineCount() int
}

// Core orchestrates one acquisition-and-alerting cycle per tick. It is
// single-threaded by contract: the cyclic executive calls Tick at the
// sample rate, and readers cross the snapshot CRC barrier.
type Core struct {
	tickMu sync.Mutex // serializes Tick against reader accessors

	daq      Acquirer
	alerts   *AlertManager
	reporter ErrorReporter
	state    model.SystemState
}

// Options carries the outbound ports and table overrides for NewCore.
type Options struct {
	Display    DisplaySink
	Recorder   RecorderSink
	Reporter   ErrorReporter
	Thresholds []Threshold
}

// NewCore wires the acquisition pipeline and the alert engine from the
// validated configuration. No allocation happens after this returns.
func NewCore(cfg config.Config, clk clock.Clock, serial bus.Serial, mux bus.Mux, opts Options) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	limits, err := collector.LoadLimits(cfg.LimitsPath)
	if err != nil {
		return nil, err
	}
	daq, err := collector.New(clk, serial, mux, collector.Config{
		EngineCount:  cfg.EngineCount,
		SampleRateHz: cfg.SampleRateHz,
	}, limits)
	if err != nil {
		return nil, err
	}
	return NewCoreWith(daq, cfg, opts)
}

// NewCoreWith builds a core around an existing Acquirer. Used by
// NewCore and by tests.
func NewCoreWith(daq Acquirer, cfg config.Config, opts Options) (*Core, error) {
	if daq == nil {
		return nil, model.ErrBadArg
	}
	alerts, err := NewAlertManager(AlertOptions{
		Thresholds:     opts.Thresholds,
		DebounceCycles: cfg.DebounceCycles,
		HysteresisPct:  cfg.HysteresisPct,
		Display:        opts.Display,
		Recorder:       opts.Recorder,
	})
	if err != nil {
		return nil, err
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Core{
		daq:      daq,
		alerts:   alerts,
		reporter: reporter,
		state:    model.StateNormal,
	}, nil
}

// Tick runs one full cycle: acquire every engine, then evaluate alerts
// for each CRC-verified snapshot in engine-id order. A snapshot that
// fails its CRC barrier is reported and skipped for this tick; alerting
// on corrupt data never happens. Recoverable conditions (bus failures,
// a saturated alert set) are absorbed into statistics; only invariant
// violations transition the core to Fault.
func (c *Core) Tick() error {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()

	switch c.state {
	case model.StateFault:
		return model.ErrFault
	case model.StateOff:
		return model.ErrNotInitialized
	}

	if err := c.daq.BeginCycle(); err != nil {
		return c.fail(err)
	}
	for e := 0; e < c.daq.EngineCount(); e++ {
		eng := model.EngineID(e)
		if err := c.daq.AcquireEngine(eng); err != nil {
			return c.fail(err)
		}
		snap, err := c.daq.Snapshot(eng)
		if err != nil {
			if errors.Is(err, model.ErrCrcMismatch) {
				c.reporter.Report("daq", SeverityMajor, CodeCrcMismatch, uint32(eng))
				continue
			}
			return c.fail(err)
		}
		if err := c.alerts.Process(&snap); err != nil {
			if !errors.Is(err, model.ErrQueueFull) {
				return c.fail(err)
			}
			c.reporter.Report("alert", SeverityMinor, CodeQueueFull, uint32(eng))
		}
		if err := c.daq.SetHealth(eng, healthFor(c.alerts.HighestFor(eng))); err != nil {
			return c.fail(err)
		}
	}
	return nil
}

// fail transitions to the Fault state; subsequent Ticks are refused.
func (c *Core) fail(err error) error {
	c.state = model.StateFault
	c.reporter.Report("core", SeverityFatal, CodeTableFault, 0)
	return err
}

// healthFor maps the highest active alert level of an engine to its
// health assessment.
func healthFor(level model.AlertLevel) model.HealthStatus {
	switch level {
	case model.AlertWarning:
		return model.HealthCritical
	case model.AlertCaution:
		return model.HealthCaution
	case model.AlertAdvisory, model.AlertStatus:
		return model.HealthMonitor
	}
	return model.HealthNormal
}

// State returns the core operating state.
func (c *Core) State() model.SystemState {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()
	return c.state
}

// Snapshot returns the CRC-verified snapshot for one engine.
func (c *Core) Snapshot(engine model.EngineID) (model.Snapshot, error) {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()
	return c.daq.Snapshot(engine)
}

// Parameter returns one sample.
func (c *Core) Parameter(engine model.EngineID, param model.ParamID) (model.Parameter, error) {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()
	return c.daq.Parameter(engine, param)
}

// Statistics returns the acquisition counters.
func (c *Core) Statistics() model.Statistics {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()
	return c.daq.Statistics()
}

// Sources returns the per-bus health tracker state.
func (c *Core) Sources() [model.SerialBusCount]model.SourceInfo {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()
	return c.daq.Sources()
}

// ResetSource reactivates a deactivated bus (maintenance path).
func (c *Core) ResetSource(busID uint8) error {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()
	return c.daq.ResetSource(busID)
}

// EngineCount returns the configured engine count.
func (c *Core) EngineCount() int {
	return c.daq.EngineCount()
}

// Alerts exposes the alert manager for display surfaces.
func (c *Core) Alerts() *AlertManager {
	return c.alerts
}

// Acknowledge silences the master indicator at level and above.
func (c *Core) Acknowledge(level model.AlertLevel) {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()
	c.alerts.Acknowledge(level)
}

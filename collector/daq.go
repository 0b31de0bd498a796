package collector

import (
	"sync"

	"github.com/aerotechavionics/ehms/bus"
	"github.com/aerotechavionics/ehms/clock"
	"github.com/aerotechavionics/ehms/model"
)

// Config holds the acquisition settings validated at init.
type Config struct {
	EngineCount  int
	SampleRateHz int
}

// DAQ is the acquisition pipeline. It produces one integrity-checked
// snapshot per engine per cycle: acquire, validate against limits,
// demote stale samples, stamp the CRC — strictly in that order.
//
// The snapshot slots are single-writer (the tick loop); concurrent
// readers go through Snapshot, which holds a short critical section and
// re-verifies the CRC as a barrier against in-memory corruption.
type DAQ struct {
	clk     clock.Clock
	serial  bus.Serial
	mux     bus.Mux
	tracker *SourceTracker
	limits  LimitsDB

	engineCount int
	initialized bool

	cycleCount    uint32
	currentMillis uint32
	currentTime   model.Timestamp

	muxSubs []uint8

	mu        sync.Mutex
	snapshots [model.MaxEngines]model.Snapshot
	crcBuf    []byte
}

// New validates the configuration and builds the pipeline. All storage
// is allocated here; the tick path allocates nothing.
func New(clk clock.Clock, serial bus.Serial, mux bus.Mux, cfg Config, limits LimitsDB) (*DAQ, error) {
	if clk == nil || serial == nil || mux == nil {
		return nil, model.ErrBadArg
	}
	if cfg.EngineCount < 1 || cfg.EngineCount > model.MaxEngines {
		return nil, model.ErrOutOfRange
	}
	if cfg.SampleRateHz < 1 || cfg.SampleRateHz > model.MaxSampleRateHz {
		return nil, model.ErrOutOfRange
	}
	if err := validateParamTable(); err != nil {
		return nil, err
	}

	d := &DAQ{
		clk:         clk,
		serial:      serial,
		mux:         mux,
		tracker:     NewSourceTracker(),
		limits:      limits,
		engineCount: cfg.EngineCount,
		crcBuf:      make([]byte, 0, model.PayloadSize),
	}
	for e := 0; e < model.MaxEngines; e++ {
		snap := &d.snapshots[e]
		snap.EngineID = model.EngineID(e)
		for p := range snap.Parameters {
			snap.Parameters[p].ParamID = model.ParamID(p)
			snap.Parameters[p].Status = model.StatusNoComputedData
		}
	}
	for i := range paramTable {
		row := &paramTable[i]
		if row.kind != srcMux {
			continue
		}
		seen := false
		for _, sub := range d.muxSubs {
			if sub == row.sub {
				seen = true
				break
			}
		}
		if !seen {
			d.muxSubs = append(d.muxSubs, row.sub)
		}
	}
	d.initialized = true
	return d, nil
}

// EngineCount returns the configured engine count.
func (d *DAQ) EngineCount() int {
	return d.engineCount
}

// BeginCycle captures the cycle time base. It must be called once per
// tick before the per-engine acquisitions.
func (d *DAQ) BeginCycle() error {
	if !d.initialized {
		return model.ErrNotInitialized
	}
	d.currentMillis = d.clk.NowMillis()
	d.currentTime = d.clk.NowTimestamp()
	d.cycleCount++
	return nil
}

// ExecuteCycle runs one full acquisition cycle across all configured
// engines, as invoked by the cyclic executive.
func (d *DAQ) ExecuteCycle() error {
	if err := d.BeginCycle(); err != nil {
		return err
	}
	for e := 0; e < d.engineCount; e++ {
		if err := d.AcquireEngine(model.EngineID(e)); err != nil {
			return err
		}
	}
	return nil
}

// AcquireEngine produces the snapshot for one engine within the current
// cycle. Calling it twice for the same engine in the same cycle yields
// an identical CRC.
func (d *DAQ) AcquireEngine(engine model.EngineID) error {
	if !d.initialized {
		return model.ErrNotInitialized
	}
	if int(engine) >= d.engineCount {
		return model.ErrOutOfRange
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	snap := &d.snapshots[engine]
	d.readSerial(snap)
	d.readMux(snap)
	d.validate(snap)
	d.checkStaleness(snap)

	snap.SampleTime = d.currentTime
	snap.CRC32, d.crcBuf = snapshotCRC(d.crcBuf, snap)
	return nil
}

// readSerial acquires every serial-sourced parameter, falling back to
// the backup bus per parameter. On double failure the prior sample is
// left in place; the staleness sweep demotes it later.
func (d *DAQ) readSerial(snap *model.Snapshot) {
	for i := range paramTable {
		row := &paramTable[i]
		if row.kind != srcSerial {
			continue
		}
		word, err := d.serial.Read(row.primary, row.label)
		busID := row.primary
		if err != nil {
			d.tracker.Record(row.primary, false, d.currentMillis)
			word, err = d.serial.Read(row.backup, row.label)
			busID = row.backup
		}
		if err != nil {
			d.tracker.Record(row.backup, false, d.currentMillis)
			continue
		}
		d.tracker.Record(busID, true, d.currentMillis)
		d.store(snap, row, int32(word.Data), busID)
	}
}

// readMux acquires the multiplex-sourced parameters. Each sub-address
// message carries several parameters in fixed layout order.
func (d *DAQ) readMux(snap *model.Snapshot) {
	for _, sub := range d.muxSubs {
		msg, err := d.mux.ReadSubaddress(sub)
		if err != nil {
			continue
		}
		for i := range paramTable {
			row := &paramTable[i]
			if row.kind != srcMux || row.sub != sub {
				continue
			}
			d.store(snap, row, int32(msg.Data[row.word]), MuxSourceBus)
		}
	}
}

// store writes one successful sample. The per-parameter timestamp is
// only ever written here; a failed read leaves the previous timestamp
// so staleness detection keeps working.
func (d *DAQ) store(snap *model.Snapshot, row *paramConfig, raw int32, busID uint8) {
	p := &snap.Parameters[row.id]
	p.ParamID = row.id
	p.RawValue = raw
	p.EngValue = float32(raw)*row.scale + row.offset
	p.SourceBus = busID
	p.Status = model.StatusValid
	p.Timestamp = d.currentTime
}

// validate range-checks every parameter with defined limits. A range
// failure demotes the status but keeps the raw and engineering values.
func (d *DAQ) validate(snap *model.Snapshot) {
	for i := range snap.Parameters {
		p := &snap.Parameters[i]
		limits, ok := d.limits.Get(p.ParamID)
		if !ok {
			continue
		}
		if p.EngValue < limits.Min || p.EngValue > limits.Max {
			p.Status = model.StatusFailed
		}
	}
}

// checkStaleness demotes Valid samples older than the stale timeout.
// Failed, NCD and Test statuses are not overwritten.
func (d *DAQ) checkStaleness(snap *model.Snapshot) {
	for i := range snap.Parameters {
		p := &snap.Parameters[i]
		if p.Status != model.StatusValid {
			continue
		}
		age := d.currentMillis - p.Timestamp.Millis()
		if age > model.StaleTimeoutMillis {
			p.Status = model.StatusStale
		}
	}
}

// Snapshot re-verifies the stored CRC and returns a copy of the engine
// snapshot. A mismatch means the slot was corrupted in memory after the
// CRC stamp.
func (d *DAQ) Snapshot(engine model.EngineID) (model.Snapshot, error) {
	if !d.initialized {
		return model.Snapshot{}, model.ErrNotInitialized
	}
	if int(engine) >= model.MaxEngines {
		return model.Snapshot{}, model.ErrOutOfRange
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	snap := &d.snapshots[engine]
	var calc uint32
	calc, d.crcBuf = snapshotCRC(d.crcBuf, snap)
	if calc != snap.CRC32 {
		return model.Snapshot{}, model.ErrCrcMismatch
	}
	return *snap, nil
}

// Parameter returns a copy of one sample.
func (d *DAQ) Parameter(engine model.EngineID, param model.ParamID) (model.Parameter, error) {
	if !d.initialized {
		return model.Parameter{}, model.ErrNotInitialized
	}
	if int(engine) >= model.MaxEngines || int(param) >= model.ParamCount {
		return model.Parameter{}, model.ErrOutOfRange
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshots[engine].Parameters[param], nil
}

// SetHealth stamps the per-engine health assessment and re-seals the
// snapshot CRC.
func (d *DAQ) SetHealth(engine model.EngineID, health model.HealthStatus) error {
	if !d.initialized {
		return model.ErrNotInitialized
	}
	if int(engine) >= model.MaxEngines {
		return model.ErrOutOfRange
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	snap := &d.snapshots[engine]
	snap.HealthStatus = health
	snap.CRC32, d.crcBuf = snapshotCRC(d.crcBuf, snap)
	return nil
}

// Statistics returns the acquisition counters.
func (d *DAQ) Statistics() model.Statistics {
	stats := model.Statistics{
		CycleCount:        d.cycleCount,
		CurrentTimeMillis: d.currentMillis,
	}
	for i, src := range d.tracker.Sources() {
		stats.SourceSamples[i] = src.TotalSamples
		stats.SourceErrors[i] = src.ErrorSamples
	}
	return stats
}

// Sources exposes the per-bus health tracker state.
func (d *DAQ) Sources() [model.SerialBusCount]model.SourceInfo {
	return d.tracker.Sources()
}

// ResetSource is the external maintenance path that reactivates a bus.
func (d *DAQ) ResetSource(busID uint8) error {
	return d.tracker.Reset(busID)
}

package engine

import (
	"fmt"

	"github.com/aerotechavionics/ehms/model"
)

// AlertManager evaluates snapshots against the threshold table and owns
// the active alert set, the master indicators and the monotonic alert
// id counter.
//
// An exceedance must persist for debounceCycles consecutive ticks
// before an alert is raised; a non-latched alert clears only after the
// value has receded past the threshold by the hysteresis margin for
// debounceCycles consecutive ticks. Alerts at Warning level or above
// latch: they stay active regardless of the exceedance and only an
// acknowledgement silences the master indicator.
type AlertManager struct {
	thresholds     []Threshold
	debounceCycles int
	hysteresisPct  float32

	alerts      [model.MaxActiveAlerts]model.Alert
	activeCount int
	nextID      uint32

	// raise/clear streak counters, indexed [engine][threshold row]
	raiseStreak [model.MaxEngines][]uint8
	clearStreak [model.MaxEngines][]uint8

	masterCaution bool
	masterWarning bool
	highest       model.AlertLevel

	display  DisplaySink
	recorder RecorderSink

	displayFailures  uint32
	recorderFailures uint32
	droppedFull      uint32
}

// AlertOptions configures the alert manager.
type AlertOptions struct {
	Thresholds     []Threshold // nil selects DefaultThresholds
	DebounceCycles int         // <1 collapses to 1
	HysteresisPct  float64
	Display        DisplaySink
	Recorder       RecorderSink
}

// NewAlertManager builds the manager. All storage is sized here.
func NewAlertManager(opts AlertOptions) (*AlertManager, error) {
	rows := opts.Thresholds
	if rows == nil {
		rows = DefaultThresholds
	}
	if err := validateThresholds(rows); err != nil {
		return nil, err
	}
	debounce := opts.DebounceCycles
	if debounce < 1 {
		debounce = 1
	}
	m := &AlertManager{
		thresholds:     rows,
		debounceCycles: debounce,
		hysteresisPct:  float32(opts.HysteresisPct),
		nextID:         1,
		display:        opts.Display,
		recorder:       opts.Recorder,
	}
	if m.display == nil {
		m.display = NopDisplay{}
	}
	if m.recorder == nil {
		m.recorder = NopRecorder{}
	}
	for e := range m.raiseStreak {
		m.raiseStreak[e] = make([]uint8, len(rows))
		m.clearStreak[e] = make([]uint8, len(rows))
	}
	return m, nil
}

// Process evaluates one snapshot. The caller has already verified the
// snapshot CRC. Only Valid parameters are consumed: stale or failed
// samples neither raise nor progress alerts, which keeps outages from
// generating spurious cautions.
//
// Returns model.ErrQueueFull when at least one qualifying exceedance
// was dropped because the active set is saturated; all other rows are
// still processed.
func (m *AlertManager) Process(snap *model.Snapshot) error {
	if snap == nil {
		return model.ErrBadArg
	}
	if int(snap.EngineID) >= model.MaxEngines {
		return model.ErrOutOfRange
	}
	var dropped bool
	eng := snap.EngineID

	for i := range m.thresholds {
		row := &m.thresholds[i]
		p := &snap.Parameters[row.Param]
		if p.Status != model.StatusValid {
			m.raiseStreak[eng][i] = 0
			continue
		}

		idx := m.find(eng, row.Param, row.Level)

		if row.exceeded(p.EngValue) {
			m.clearStreak[eng][i] = 0
			if idx >= 0 {
				continue // re-raising an active alert allocates no new id
			}
			if m.raiseStreak[eng][i] < uint8(m.debounceCycles) {
				m.raiseStreak[eng][i]++
			}
			if int(m.raiseStreak[eng][i]) < m.debounceCycles {
				continue
			}
			if !m.raise(row, snap) {
				dropped = true
			}
			continue
		}

		m.raiseStreak[eng][i] = 0
		if idx < 0 || m.alerts[idx].Latched {
			continue
		}
		if !row.receded(p.EngValue, m.hysteresisPct) {
			m.clearStreak[eng][i] = 0
			continue
		}
		if m.clearStreak[eng][i] < uint8(m.debounceCycles) {
			m.clearStreak[eng][i]++
		}
		if int(m.clearStreak[eng][i]) >= m.debounceCycles {
			m.clearStreak[eng][i] = 0
			m.clear(idx, snap.SampleTime)
		}
	}

	if dropped {
		return model.ErrQueueFull
	}
	return nil
}

// raise allocates a slot and publishes the alert. Returns false when
// the active set is saturated.
func (m *AlertManager) raise(row *Threshold, snap *model.Snapshot) bool {
	if m.activeCount >= model.MaxActiveAlerts {
		m.droppedFull++
		return false
	}
	a := &m.alerts[m.activeCount]
	*a = model.Alert{
		AlertID:     m.nextID,
		Level:       row.Level,
		EngineID:    snap.EngineID,
		ParamID:     row.Param,
		OnsetTime:   snap.SampleTime,
		Active:      true,
		Latched:     row.Level >= model.AlertWarning,
		Message:     fmt.Sprintf(row.Message, int(snap.EngineID)+1),
		DisplayCode: row.DisplayCode,
	}
	m.nextID++
	m.activeCount++

	if row.Level >= model.AlertWarning {
		m.masterWarning = true
	} else if row.Level >= model.AlertCaution {
		m.masterCaution = true
	}
	if row.Level > m.highest {
		m.highest = row.Level
	}

	if err := m.display.Post(*a); err != nil {
		m.displayFailures++
	}
	if err := m.recorder.LogAlert(*a); err != nil {
		m.recorderFailures++
	}
	return true
}

// clear stamps the clear time and removes the alert from the active set.
func (m *AlertManager) clear(idx int, at model.Timestamp) {
	a := m.alerts[idx]
	a.Active = false
	a.ClearTime = at
	if err := m.recorder.LogAlert(a); err != nil {
		m.recorderFailures++
	}

	m.activeCount--
	m.alerts[idx] = m.alerts[m.activeCount]
	m.alerts[m.activeCount] = model.Alert{}

	m.highest = model.AlertNone
	for i := 0; i < m.activeCount; i++ {
		if m.alerts[i].Level > m.highest {
			m.highest = m.alerts[i].Level
		}
	}
}

func (m *AlertManager) find(eng model.EngineID, param model.ParamID, level model.AlertLevel) int {
	for i := 0; i < m.activeCount; i++ {
		a := &m.alerts[i]
		if a.EngineID == eng && a.ParamID == param && a.Level == level {
			return i
		}
	}
	return -1
}

// Acknowledge silences the master indicator at the given level and
// above. It removes no alerts: non-latched alerts leave the active set
// only when their exceedance clears, and the alert manager has no path
// that removes a latched alert.
func (m *AlertManager) Acknowledge(level model.AlertLevel) {
	if level <= model.AlertCaution {
		m.masterCaution = false
	}
	if level <= model.AlertWarning {
		m.masterWarning = false
	}
}

// ActiveCount returns the number of active alerts.
func (m *AlertManager) ActiveCount() int {
	return m.activeCount
}

// Active copies the active alert set into dst and returns the filled
// prefix; pass a slice of at least MaxActiveAlerts to get everything.
func (m *AlertManager) Active(dst []model.Alert) []model.Alert {
	n := copy(dst, m.alerts[:m.activeCount])
	return dst[:n]
}

// HighestLevel returns the highest level among active alerts.
func (m *AlertManager) HighestLevel() model.AlertLevel {
	return m.highest
}

// MasterCaution reports the crew-facing caution indicator.
func (m *AlertManager) MasterCaution() bool {
	return m.masterCaution
}

// MasterWarning reports the crew-facing warning indicator.
func (m *AlertManager) MasterWarning() bool {
	return m.masterWarning
}

// HighestFor returns the highest active alert level for one engine.
func (m *AlertManager) HighestFor(eng model.EngineID) model.AlertLevel {
	highest := model.AlertNone
	for i := 0; i < m.activeCount; i++ {
		if m.alerts[i].EngineID == eng && m.alerts[i].Level > highest {
			highest = m.alerts[i].Level
		}
	}
	return highest
}

// SinkFailures returns the counted publication failures.
func (m *AlertManager) SinkFailures() (display, recorder uint32) {
	return m.displayFailures, m.recorderFailures
}

// DroppedFull returns the number of exceedances dropped because the
// active set was saturated.
func (m *AlertManager) DroppedFull() uint32 {
	return m.droppedFull
}

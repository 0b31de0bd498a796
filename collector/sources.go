package collector

import "github.com/aerotechavionics/ehms/model"

// SourceTracker keeps per-bus health counters. A bus that fails
// model.MaxConsecutiveFailures reads in a row is deactivated and stays
// deactivated until an explicit reset; a later successful read only
// resets the consecutive-failure counter. Inactivity is a statistic,
// not a gate: the pipeline keeps attempting reads against an inactive
// bus.
type SourceTracker struct {
	sources [model.SerialBusCount]model.SourceInfo
}

// NewSourceTracker initializes all buses active, with the lower half of
// the bus set designated primary.
func NewSourceTracker() *SourceTracker {
	t := &SourceTracker{}
	for i := range t.sources {
		t.sources[i] = model.SourceInfo{
			Active:  true,
			Primary: i < model.SerialBusCount/2,
			BusID:   uint8(i),
		}
	}
	return t
}

// Record updates counters for one read attempt on busID at nowMillis.
func (t *SourceTracker) Record(busID uint8, ok bool, nowMillis uint32) {
	if int(busID) >= len(t.sources) {
		return
	}
	src := &t.sources[busID]
	src.TotalSamples++
	src.LastUpdateMillis = nowMillis
	if ok {
		src.ConsecutiveFailures = 0
		return
	}
	src.ErrorSamples++
	src.ConsecutiveFailures++
	if src.ConsecutiveFailures >= model.MaxConsecutiveFailures {
		src.Active = false
	}
}

// Source returns the tracked state of one bus.
func (t *SourceTracker) Source(busID uint8) (model.SourceInfo, error) {
	if int(busID) >= len(t.sources) {
		return model.SourceInfo{}, model.ErrOutOfRange
	}
	return t.sources[busID], nil
}

// Sources returns a copy of all tracked buses.
func (t *SourceTracker) Sources() [model.SerialBusCount]model.SourceInfo {
	return t.sources
}

// Reset reactivates a bus and clears its failure streak. This is the
// external maintenance path; it is never called from the tick loop.
func (t *SourceTracker) Reset(busID uint8) error {
	if int(busID) >= len(t.sources) {
		return model.ErrOutOfRange
	}
	t.sources[busID].Active = true
	t.sources[busID].ConsecutiveFailures = 0
	return nil
}

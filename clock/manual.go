package clock

import (
	"sync"
	"time"

	"github.com/aerotechavionics/ehms/model"
)

// Manual is a deterministic clock for tests and replay. It only moves
// when Advance or Set is called.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual creates a manual clock anchored at the given time.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start.UTC()}
}

func (m *Manual) NowMillis() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return uint32(m.now.UnixMilli())
}

func (m *Manual) NowTimestamp() model.Timestamp {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.TimestampFrom(m.now)
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set repositions the clock.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t.UTC()
}

package clock

import (
	"time"

	"github.com/aerotechavionics/ehms/model"
)

// Clock is the time source capability the core consumes. NowMillis is
// monotonic and wraps at 2^32 ms; age computations use modular uint32
// subtraction. NowTimestamp is the wall-clock UTC sample time. Both
// views must be derived from the same underlying reading so that
// Timestamp.Millis comparisons against NowMillis are meaningful.
type Clock interface {
	NowMillis() uint32
	NowTimestamp() model.Timestamp
}

// System reads the host clock.
type System struct{}

// NewSystem returns a Clock backed by the host's wall clock.
func NewSystem() *System {
	return &System{}
}

func (*System) NowMillis() uint32 {
	return uint32(time.Now().UnixMilli())
}

func (*System) NowTimestamp() model.Timestamp {
	return model.TimestampFrom(time.Now())
}

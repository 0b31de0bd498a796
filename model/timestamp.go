package model

import "time"

// Timestamp is a wall-clock UTC sample time with millisecond resolution.
// Year is constrained to 2000-2099 by the avionics time source.
type Timestamp struct {
	Year        uint16 `json:"year"`
	Month       uint8  `json:"month"`
	Day         uint8  `json:"day"`
	Hour        uint8  `json:"hour"`
	Minute      uint8  `json:"minute"`
	Second      uint8  `json:"second"`
	Millisecond uint16 `json:"millisecond"`
}

// TimestampFrom converts a time.Time to a Timestamp in UTC.
func TimestampFrom(t time.Time) Timestamp {
	t = t.UTC()
	return Timestamp{
		Year:        uint16(t.Year()),
		Month:       uint8(t.Month()),
		Day:         uint8(t.Day()),
		Hour:        uint8(t.Hour()),
		Minute:      uint8(t.Minute()),
		Second:      uint8(t.Second()),
		Millisecond: uint16(t.Nanosecond() / 1e6),
	}
}

// Time converts the timestamp back to a time.Time in UTC.
func (ts Timestamp) Time() time.Time {
	return time.Date(int(ts.Year), time.Month(ts.Month), int(ts.Day),
		int(ts.Hour), int(ts.Minute), int(ts.Second),
		int(ts.Millisecond)*1e6, time.UTC)
}

// Millis returns the monotonic-millisecond reading equivalent to this
// timestamp. The value wraps at 2^32 ms; age computations must use
// modular uint32 subtraction against the same clock.
func (ts Timestamp) Millis() uint32 {
	return uint32(ts.Time().UnixMilli())
}

// IsZero reports whether the timestamp has never been set.
func (ts Timestamp) IsZero() bool {
	return ts == Timestamp{}
}

package model

import (
	"encoding/binary"
	"math"
)

// PayloadSize is the packed snapshot size excluding the trailing CRC.
const PayloadSize = 1 + 4 + ParamCount*paramRecordSize + 1

const paramRecordSize = 1 + 1 + 4 + 4 + timestampSize + 1

const timestampSize = 2 + 1 + 1 + 1 + 1 + 1 + 2

// AppendPayload appends the reference binary layout of the snapshot to
// dst and returns the extended slice. The layout is little-endian with
// IEEE-754 single-precision floats; the CRC field is not included. The
// snapshot CRC is computed over exactly these bytes on every target.
func AppendPayload(dst []byte, s *Snapshot) []byte {
	dst = append(dst, byte(s.EngineID))
	dst = binary.LittleEndian.AppendUint32(dst, s.FlightPhase)
	for i := range s.Parameters {
		p := &s.Parameters[i]
		dst = append(dst, byte(p.ParamID), byte(p.Status))
		dst = binary.LittleEndian.AppendUint32(dst, uint32(p.RawValue))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(p.EngValue))
		dst = appendTimestamp(dst, p.Timestamp)
		dst = append(dst, p.SourceBus)
	}
	dst = append(dst, byte(s.HealthStatus))
	return dst
}

func appendTimestamp(dst []byte, ts Timestamp) []byte {
	dst = binary.LittleEndian.AppendUint16(dst, ts.Year)
	dst = append(dst, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second)
	dst = binary.LittleEndian.AppendUint16(dst, ts.Millisecond)
	return dst
}

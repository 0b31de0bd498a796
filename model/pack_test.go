package model

import (
	"encoding/binary"
	"math"
	"testing"
	"time"
)

func TestAppendPayloadSize(t *testing.T) {
	var s Snapshot
	got := AppendPayload(nil, &s)
	if len(got) != PayloadSize {
		t.Fatalf("payload size = %d, want %d", len(got), PayloadSize)
	}
}

func TestAppendPayloadLayout(t *testing.T) {
	s := Snapshot{
		EngineID:     2,
		FlightPhase:  0x01020304,
		HealthStatus: HealthCaution,
	}
	s.Parameters[0] = Parameter{
		ParamID:   ParamN1,
		Status:    StatusValid,
		RawValue:  850,
		EngValue:  85.0,
		SourceBus: 1,
	}

	buf := AppendPayload(nil, &s)

	if buf[0] != 2 {
		t.Errorf("engine id byte = %d, want 2", buf[0])
	}
	if got := binary.LittleEndian.Uint32(buf[1:5]); got != 0x01020304 {
		t.Errorf("flight phase = 0x%08X, want 0x01020304", got)
	}
	// First parameter record starts at offset 5.
	if buf[5] != byte(ParamN1) || buf[6] != byte(StatusValid) {
		t.Errorf("param header = %d,%d", buf[5], buf[6])
	}
	if got := int32(binary.LittleEndian.Uint32(buf[7:11])); got != 850 {
		t.Errorf("raw value = %d, want 850", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[11:15])); got != 85.0 {
		t.Errorf("eng value = %v, want 85.0", got)
	}
	// Health byte is the last payload byte.
	if buf[len(buf)-1] != byte(HealthCaution) {
		t.Errorf("health byte = %d, want %d", buf[len(buf)-1], HealthCaution)
	}
}

func TestAppendPayloadDeterministic(t *testing.T) {
	s := Snapshot{EngineID: 1}
	s.Parameters[3].EngValue = 123.456
	a := AppendPayload(nil, &s)
	b := AppendPayload(nil, &s)
	if string(a) != string(b) {
		t.Fatal("payload not deterministic")
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	ref := time.Date(2025, time.March, 14, 9, 26, 53, 589*1e6, time.UTC)
	ts := TimestampFrom(ref)
	if got := ts.Time(); !got.Equal(ref) {
		t.Fatalf("round trip = %v, want %v", got, ref)
	}
	if ts.Millisecond != 589 {
		t.Errorf("millisecond = %d, want 589", ts.Millisecond)
	}
}

func TestTimestampMillisModularAge(t *testing.T) {
	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		dt   time.Duration
		want uint32
	}{
		{"same instant", 0, 0},
		{"ten ms", 10 * time.Millisecond, 10},
		{"stale boundary", 100 * time.Millisecond, 100},
		{"just stale", 101 * time.Millisecond, 101},
		{"one hour", time.Hour, 3600000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample := TimestampFrom(base)
			now := TimestampFrom(base.Add(tt.dt))
			if age := now.Millis() - sample.Millis(); age != tt.want {
				t.Errorf("age = %d, want %d", age, tt.want)
			}
		})
	}
}

func TestParamIDByName(t *testing.T) {
	id, ok := ParamIDByName("OIL_PRESS")
	if !ok || id != ParamOilPress {
		t.Fatalf("ParamIDByName(OIL_PRESS) = %v, %v", id, ok)
	}
	if _, ok := ParamIDByName("NOT_A_PARAM"); ok {
		t.Fatal("unknown name resolved")
	}
}

func TestAlertLevelCrewAlerting(t *testing.T) {
	tests := []struct {
		level AlertLevel
		want  bool
	}{
		{AlertNone, false},
		{AlertStatus, false},
		{AlertAdvisory, false},
		{AlertCaution, true},
		{AlertWarning, true},
	}
	for _, tt := range tests {
		if got := tt.level.CrewAlerting(); got != tt.want {
			t.Errorf("%v.CrewAlerting() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

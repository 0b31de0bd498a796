package model

// Parameter is one acquired sample in engineering units.
// RawValue is the integer payload as received from the bus; EngValue is
// raw*scale + offset from the parameter table.
type Parameter struct {
	ParamID   ParamID     `json:"param_id"`
	Status    ParamStatus `json:"status"`
	RawValue  int32       `json:"raw_value"`
	EngValue  float32     `json:"eng_value"`
	Timestamp Timestamp   `json:"timestamp"`
	SourceBus uint8       `json:"source_bus"`
}

// Snapshot is the full per-engine parameter record for one tick.
// CRC32 covers the packed payload up to but not including the CRC field
// itself (see AppendPayload for the reference byte layout).
type Snapshot struct {
	EngineID     EngineID               `json:"engine_id"`
	SampleTime   Timestamp              `json:"sample_time"`
	FlightPhase  uint32                 `json:"flight_phase"`
	Parameters   [ParamCount]Parameter  `json:"parameters"`
	HealthStatus HealthStatus           `json:"health_status"`
	CRC32        uint32                 `json:"crc32"`
}

// SourceInfo tracks the health of one serial bus.
type SourceInfo struct {
	Active              bool
	Primary             bool
	BusID               uint8
	LastUpdateMillis    uint32
	TotalSamples        uint32
	ErrorSamples        uint32
	ConsecutiveFailures uint32
}

// Statistics is the acquisition observability surface.
type Statistics struct {
	CycleCount        uint32
	CurrentTimeMillis uint32
	SourceSamples     [SerialBusCount]uint32
	SourceErrors      [SerialBusCount]uint32
}

// Alert is one crew alert. IDs are monotonic within a process lifetime,
// starting at 1.
type Alert struct {
	AlertID     uint32     `json:"alert_id"`
	Level       AlertLevel `json:"level"`
	EngineID    EngineID   `json:"engine_id"`
	ParamID     ParamID    `json:"param_id"`
	OnsetTime   Timestamp  `json:"onset_time"`
	ClearTime   Timestamp  `json:"clear_time"`
	Active      bool       `json:"active"`
	Latched     bool       `json:"latched"`
	Inhibited   bool       `json:"inhibited"`
	Message     string     `json:"message"`
	DisplayCode uint16     `json:"display_code"`
}

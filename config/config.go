package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aerotechavionics/ehms/model"
)

// BusConfig holds the serial-bus line settings handed to the drivers
// at init.
type BusConfig struct {
	Speed  string `json:"speed"`  // "high" or "low"
	Parity string `json:"parity"` // "odd" or "even"
}

// PrometheusConfig controls the ground-rig statistics exporter.
type PrometheusConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// Config holds the init-time configuration of the core.
type Config struct {
	EngineCount    int                             `json:"engine_count"`
	SampleRateHz   int                             `json:"sample_rate_hz"`
	Buses          [model.SerialBusCount]BusConfig `json:"buses"`
	MuxRTAddress   uint8                           `json:"mux_rt_address"`
	DebounceCycles int                             `json:"debounce_cycles"`
	HysteresisPct  float64                         `json:"hysteresis_pct"`
	LimitsPath     string                          `json:"limits_path"`
	RecorderPath   string                          `json:"recorder_path"`
	Prometheus     PrometheusConfig                `json:"prometheus"`
}

// Default returns the reference configuration.
func Default() Config {
	cfg := Config{
		EngineCount:    2,
		SampleRateHz:   100,
		MuxRTAddress:   0x05,
		DebounceCycles: 3,
		HysteresisPct:  2.0,
		Prometheus: PrometheusConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9310",
		},
	}
	for i := range cfg.Buses {
		cfg.Buses[i] = BusConfig{Speed: "high", Parity: "odd"}
	}
	return cfg
}

// Validate range-checks the configuration.
func (c Config) Validate() error {
	if c.EngineCount < 1 || c.EngineCount > model.MaxEngines {
		return fmt.Errorf("engine_count %d: %w", c.EngineCount, model.ErrOutOfRange)
	}
	if c.SampleRateHz < 1 || c.SampleRateHz > model.MaxSampleRateHz {
		return fmt.Errorf("sample_rate_hz %d: %w", c.SampleRateHz, model.ErrOutOfRange)
	}
	if c.DebounceCycles < 1 {
		return fmt.Errorf("debounce_cycles %d: %w", c.DebounceCycles, model.ErrOutOfRange)
	}
	if c.HysteresisPct < 0 || c.HysteresisPct > 100 {
		return fmt.Errorf("hysteresis_pct %v: %w", c.HysteresisPct, model.ErrOutOfRange)
	}
	for i, b := range c.Buses {
		if b.Speed != "high" && b.Speed != "low" {
			return fmt.Errorf("bus %d speed %q: %w", i, b.Speed, model.ErrBadArg)
		}
		if b.Parity != "odd" && b.Parity != "even" {
			return fmt.Errorf("bus %d parity %q: %w", i, b.Parity, model.ErrBadArg)
		}
	}
	return nil
}

// Path returns ~/.config/ehms/config.json (or XDG_CONFIG_HOME).
// Returns empty string if the home directory cannot be determined.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "ehms", "config.json")
}

// Load loads config from disk; returns defaults on error.
func Load() Config {
	return LoadFile(Path())
}

// LoadFile loads config from an explicit path; returns defaults on
// error.
func LoadFile(path string) Config {
	cfg := Default()
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("ehms: warning: config parse error: %v", err)
	}
	return cfg
}

// Save writes the config to disk.
func Save(cfg Config) error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

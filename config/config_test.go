package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aerotechavionics/ehms/model"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero engines", func(c *Config) { c.EngineCount = 0 }, model.ErrOutOfRange},
		{"too many engines", func(c *Config) { c.EngineCount = 5 }, model.ErrOutOfRange},
		{"rate too high", func(c *Config) { c.SampleRateHz = 101 }, model.ErrOutOfRange},
		{"rate zero", func(c *Config) { c.SampleRateHz = 0 }, model.ErrOutOfRange},
		{"zero debounce", func(c *Config) { c.DebounceCycles = 0 }, model.ErrOutOfRange},
		{"negative hysteresis", func(c *Config) { c.HysteresisPct = -1 }, model.ErrOutOfRange},
		{"bad speed", func(c *Config) { c.Buses[0].Speed = "turbo" }, model.ErrBadArg},
		{"bad parity", func(c *Config) { c.Buses[2].Parity = "none" }, model.ErrBadArg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("Validate = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	if cfg.EngineCount != Default().EngineCount {
		t.Fatalf("missing file did not return defaults: %+v", cfg)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"engine_count": 4, "sample_rate_hz": 50, "debounce_cycles": 1}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadFile(path)
	if cfg.EngineCount != 4 || cfg.SampleRateHz != 50 || cfg.DebounceCycles != 1 {
		t.Fatalf("loaded config = %+v", cfg)
	}
	// Unspecified fields keep defaults.
	if cfg.MuxRTAddress != 0x05 {
		t.Errorf("mux rt address = %#x, want 0x05", cfg.MuxRTAddress)
	}
}

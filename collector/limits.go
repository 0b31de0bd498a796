package collector

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aerotechavionics/ehms/model"
)

// Limits is one engineering-unit validity range.
type Limits struct {
	Min float32
	Max float32
}

// LimitsDB holds per-parameter validity ranges. Parameters without a
// defined row are never range-failed.
type LimitsDB struct {
	defined [model.ParamCount]bool
	rows    [model.ParamCount]Limits
}

// Get returns the limits for a parameter; ok is false when none are
// defined.
func (db *LimitsDB) Get(p model.ParamID) (Limits, bool) {
	if int(p) >= model.ParamCount {
		return Limits{}, false
	}
	return db.rows[p], db.defined[p]
}

// Set installs a limits row.
func (db *LimitsDB) Set(p model.ParamID, l Limits) {
	db.rows[p] = l
	db.defined[p] = true
}

// DefaultLimits returns the compiled-in parameter database.
func DefaultLimits() LimitsDB {
	var db LimitsDB
	db.Set(model.ParamN1, Limits{0, 120})
	db.Set(model.ParamN2, Limits{0, 120})
	db.Set(model.ParamEGT, Limits{-50, 1200})
	db.Set(model.ParamFF, Limits{0, 50000})
	db.Set(model.ParamOilTemp, Limits{-40, 200})
	db.Set(model.ParamOilPress, Limits{0, 100})
	db.Set(model.ParamOilQty, Limits{0, 100})
	db.Set(model.ParamVibFan, Limits{0, 10})
	db.Set(model.ParamVibCore, Limits{0, 10})
	db.Set(model.ParamEPR, Limits{0, 4})
	db.Set(model.ParamITT, Limits{-50, 1200})
	db.Set(model.ParamThrust, Limits{0, 120000})
	db.Set(model.ParamBleedPress, Limits{0, 100})
	db.Set(model.ParamBleedTemp, Limits{-40, 300})
	db.Set(model.ParamStartValve, Limits{0, 1})
	db.Set(model.ParamFuelValve, Limits{0, 1})
	return db
}

// limitsFile is the on-disk YAML schema maintained by the parameter
// database tooling.
type limitsFile struct {
	Limits []limitsEntry `yaml:"limits"`
}

type limitsEntry struct {
	Param string  `yaml:"param"`
	Min   float32 `yaml:"min"`
	Max   float32 `yaml:"max"`
}

// LoadLimits reads a YAML limits file and overlays it on the defaults.
// An empty path returns the defaults unchanged.
func LoadLimits(path string) (LimitsDB, error) {
	db := DefaultLimits()
	if path == "" {
		return db, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return db, fmt.Errorf("read limits file: %w", err)
	}
	var f limitsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return db, fmt.Errorf("parse limits file: %w", err)
	}
	for _, e := range f.Limits {
		id, ok := model.ParamIDByName(e.Param)
		if !ok {
			return db, fmt.Errorf("limits file: unknown parameter %q: %w", e.Param, model.ErrBadArg)
		}
		if e.Min > e.Max {
			return db, fmt.Errorf("limits file: %s: min > max: %w", e.Param, model.ErrOutOfRange)
		}
		db.Set(id, Limits{Min: e.Min, Max: e.Max})
	}
	return db, nil
}

package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aerotechavionics/ehms/bus"
	"github.com/aerotechavionics/ehms/clock"
	ehmscfg "github.com/aerotechavionics/ehms/config"
	"github.com/aerotechavionics/ehms/engine"
	"github.com/aerotechavionics/ehms/model"
	"github.com/aerotechavionics/ehms/ui"
)

// Version is set at build time via ldflags.
var Version = "2.4.1"

func printUsage() {
	fmt.Fprintf(os.Stderr, `ehms v%s — engine health monitoring bench console

Usage:
  ehms [OPTIONS]

Modes:
  (default)       Interactive crew display (bubbletea, fullscreen)
  -watch          Headless output — prints engine lines with auto-refresh
  -json           Single JSON snapshot dump to stdout, then exit

Options:
  -config PATH    Config file (default ~/.config/ehms/config.json)
  -interval MS    Tick interval in milliseconds (default 10)
  -duration SEC   Stop after SEC seconds in -watch mode (0=forever)
  -record PATH    Append alert events (JSON lines) to PATH
  -scenario NAME  Bench scenario: nominal, egt-caution, oil-press, bus-failure
  -prom ADDR      Serve Prometheus statistics on ADDR
`, Version)
}

// Run parses flags and dispatches the selected mode.
func Run() error {
	fs := flag.NewFlagSet("ehms", flag.ContinueOnError)
	fs.Usage = printUsage

	configPath := fs.String("config", "", "config file path")
	intervalMS := fs.Int("interval", 10, "tick interval in ms")
	durationSec := fs.Int("duration", 0, "watch duration in seconds")
	watchMode := fs.Bool("watch", false, "headless watch mode")
	jsonMode := fs.Bool("json", false, "single JSON dump")
	recordPath := fs.String("record", "", "alert recording path")
	scenarioName := fs.String("scenario", "nominal", "bench scenario")
	promAddr := fs.String("prom", "", "prometheus listen address")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	cfg := ehmscfg.Default()
	if *configPath != "" {
		cfg = ehmscfg.LoadFile(*configPath)
	} else {
		cfg = ehmscfg.Load()
	}
	if *recordPath != "" {
		cfg.RecorderPath = *recordPath
	}
	if *promAddr != "" {
		cfg.Prometheus.Enabled = true
		cfg.Prometheus.Addr = *promAddr
	}

	serial := bus.NewSimSerial()
	mux := bus.NewSimMux()
	scenario, err := NewScenario(*scenarioName, serial, mux)
	if err != nil {
		return err
	}

	opts := engine.Options{Reporter: logReporter{}}
	if cfg.RecorderPath != "" {
		f, err := os.OpenFile(cfg.RecorderPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open recording: %w", err)
		}
		defer f.Close()
		opts.Recorder = engine.NewAlertRecorder(f)
	}
	if *watchMode {
		opts.Display = NewConsoleDisplay(os.Stdout)
	}

	core, err := engine.NewCore(cfg, clock.NewSystem(), serial, mux, opts)
	if err != nil {
		return err
	}

	if cfg.Prometheus.Enabled {
		metrics := engine.NewMetrics(core)
		go func() {
			if err := http.ListenAndServe(cfg.Prometheus.Addr, metrics.Handler()); err != nil {
				log.Printf("ehms: metrics server: %v", err)
			}
		}()
	}

	interval := time.Duration(*intervalMS) * time.Millisecond

	switch {
	case *jsonMode:
		return runJSON(core, scenario)
	case *watchMode:
		return runWatch(core, scenario, interval, *durationSec)
	default:
		app := ui.NewApp(core, scenario.Step, interval)
		_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
		return err
	}
}

// runJSON executes one tick and dumps the snapshots and statistics.
func runJSON(core *engine.Core, scenario *Scenario) error {
	scenario.Step()
	if err := core.Tick(); err != nil {
		return err
	}
	out := struct {
		State      string           `json:"state"`
		Statistics model.Statistics `json:"statistics"`
		Snapshots  []model.Snapshot `json:"snapshots"`
	}{State: core.State().String(), Statistics: core.Statistics()}

	for e := 0; e < core.EngineCount(); e++ {
		snap, err := core.Snapshot(model.EngineID(e))
		if err != nil {
			return err
		}
		out.Snapshots = append(out.Snapshots, snap)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// runWatch ticks the core on a wall timer and prints one line per
// engine per refresh.
func runWatch(core *engine.Core, scenario *Scenario, interval time.Duration, durationSec int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	deadline := time.Time{}
	if durationSec > 0 {
		deadline = time.Now().Add(time.Duration(durationSec) * time.Second)
	}

	last := time.Now()
	for range ticker.C {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil
		}
		scenario.Step()
		if err := core.Tick(); err != nil {
			return err
		}

		// Print a summary once per second; ticks are much faster.
		if time.Since(last) < time.Second {
			continue
		}
		last = time.Now()
		for e := 0; e < core.EngineCount(); e++ {
			snap, err := core.Snapshot(model.EngineID(e))
			if err != nil {
				fmt.Printf("ENG %d snapshot: %v\n", e+1, err)
				continue
			}
			n1 := snap.Parameters[model.ParamN1]
			egt := snap.Parameters[model.ParamEGT]
			oil := snap.Parameters[model.ParamOilPress]
			fmt.Printf("ENG %d %-11s N1=%5.1f%% EGT=%6.1f°C OIL=%5.1fPSI alerts=%d caut=%v warn=%v\n",
				e+1, snap.HealthStatus,
				n1.EngValue, egt.EngValue, oil.EngValue,
				core.Alerts().ActiveCount(),
				core.Alerts().MasterCaution(), core.Alerts().MasterWarning())
		}
	}
	return nil
}

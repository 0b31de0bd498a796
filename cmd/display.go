package cmd

import (
	"fmt"
	"io"
	"sync"

	"github.com/aerotechavionics/ehms/engine"
	"github.com/aerotechavionics/ehms/model"
)

// ConsoleDisplay is the crew-display sink for headless modes: each new
// alert prints one line.
type ConsoleDisplay struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleDisplay writes alert lines to w.
func NewConsoleDisplay(w io.Writer) *ConsoleDisplay {
	return &ConsoleDisplay{w: w}
}

func (d *ConsoleDisplay) Post(alert model.Alert) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := fmt.Fprintf(d.w, "ALERT #%d %-8s %s (0x%04X)\n",
		alert.AlertID, alert.Level, alert.Message, alert.DisplayCode)
	return err
}

// logReporter prints error-handler reports to standard output.
type logReporter struct{}

func (logReporter) Report(module string, severity engine.Severity, code uint16, arg uint32) {
	fmt.Printf("REPORT %s %s code=0x%04X arg=%d\n", module, severity, code, arg)
}

// Package ui is the crew-display front-end. It is an outer surface: on
// each display tick it calls core.Tick, and it reads state through the
// core's reader accessors.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aerotechavionics/ehms/engine"
	"github.com/aerotechavionics/ehms/model"
)

type tickMsg time.Time

// App is the bubbletea model driving the crew display.
type App struct {
	core     *engine.Core
	step     func() // runs before each core.Tick (e.g. a bus scenario step)
	interval time.Duration

	width  int
	height int
	err    error

	alertBuf [model.MaxActiveAlerts]model.Alert
}

// NewApp creates the display. On every display tick the App calls step
// (when non-nil) and then core.Tick.
func NewApp(core *engine.Core, step func(), interval time.Duration) *App {
	return &App{core: core, step: step, interval: interval}
}

func (a *App) Init() tea.Cmd {
	return a.tickCmd()
}

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(a.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tickMsg:
		if a.step != nil {
			a.step()
		}
		if err := a.core.Tick(); err != nil {
			a.err = err
		}
		return a, a.tickCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "c":
			a.core.Acknowledge(model.AlertCaution)
		case "w":
			a.core.Acknowledge(model.AlertWarning)
		}
	}
	return a, nil
}

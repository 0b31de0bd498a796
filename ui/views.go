package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aerotechavionics/ehms/model"
)

func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	var panels []string
	for e := 0; e < a.core.EngineCount(); e++ {
		panels = append(panels, a.renderEngine(model.EngineID(e)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels...))
	b.WriteString("\n")
	b.WriteString(a.renderAlerts())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q quit · c ack caution · w ack warning"))
	return b.String()
}

func (a *App) renderHeader() string {
	state := a.core.State()
	stateStr := okStyle.Render(state.String())
	if state != model.StateNormal {
		stateStr = warningText.Render(state.String())
	}

	caution := lampOff.Render("[ CAUT ]")
	if a.core.Alerts().MasterCaution() {
		caution = cautionLamp.Render("CAUT")
	}
	warning := lampOff.Render("[ WARN ]")
	if a.core.Alerts().MasterWarning() {
		warning = warningLamp.Render("WARN")
	}

	stats := a.core.Statistics()
	return lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("ENGINE HEALTH"), "  ",
		labelStyle.Render("state "), stateStr, "  ",
		caution, " ", warning, "  ",
		labelStyle.Render(fmt.Sprintf("cycle %d", stats.CycleCount)),
	)
}

func (a *App) renderEngine(eng model.EngineID) string {
	var rows []string
	snap, err := a.core.Snapshot(eng)
	if err != nil {
		rows = append(rows, warningText.Render(fmt.Sprintf("SNAPSHOT: %v", err)))
		return panelStyle.Render(strings.Join(rows, "\n"))
	}

	title := fmt.Sprintf("ENG %d  %s", int(eng)+1, snap.HealthStatus)
	rows = append(rows, titleStyle.Render(title))
	for i := range snap.Parameters {
		p := &snap.Parameters[i]
		rows = append(rows, renderParam(p))
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func renderParam(p *model.Parameter) string {
	name := fmt.Sprintf("%-12s", p.ParamID)
	value := fmt.Sprintf("%9.1f %-5s", p.EngValue, p.ParamID.Unit())
	status := p.Status.String()

	var style lipgloss.Style
	switch p.Status {
	case model.StatusValid:
		style = okStyle
	case model.StatusStale:
		style = staleStyle
	case model.StatusFailed:
		style = warningText
	default:
		style = labelStyle
	}
	return labelStyle.Render(name) + valueStyle.Render(value) + " " + style.Render(status)
}

func (a *App) renderAlerts() string {
	alerts := a.core.Alerts().Active(a.alertBuf[:])
	if len(alerts) == 0 {
		return panelStyle.Render(okStyle.Render("NO ACTIVE ALERTS"))
	}
	var rows []string
	for _, al := range alerts {
		line := fmt.Sprintf("%-8s %s  (0x%04X)", al.Level, al.Message, al.DisplayCode)
		if al.Latched {
			line += "  LATCHED"
		}
		switch {
		case al.Level >= model.AlertWarning:
			rows = append(rows, warningText.Render(line))
		case al.Level >= model.AlertCaution:
			rows = append(rows, cautionText.Render(line))
		case al.Level >= model.AlertAdvisory:
			rows = append(rows, lipgloss.NewStyle().Foreground(colorCyan).Render(line))
		default:
			rows = append(rows, valueStyle.Render(line))
		}
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

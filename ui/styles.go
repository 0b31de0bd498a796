package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors follow the crew-alerting convention: amber caution, red
	// warning, cyan advisory.
	colorRed   = lipgloss.Color("#FF5555")
	colorAmber = lipgloss.Color("#FFB86C")
	colorGreen = lipgloss.Color("#50FA7B")
	colorCyan  = lipgloss.Color("#8BE9FD")
	colorWhite = lipgloss.Color("#F8F8F2")
	colorGray  = lipgloss.Color("#6272A4")
	colorPanel = lipgloss.Color("#44475A")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1)

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	labelStyle  = lipgloss.NewStyle().Foreground(colorGray)
	valueStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	okStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	cautionText = lipgloss.NewStyle().Foreground(colorAmber).Bold(true)
	warningText = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	staleStyle  = lipgloss.NewStyle().Foreground(colorGray)
	helpStyle   = lipgloss.NewStyle().Foreground(colorGray)

	lampOff     = lipgloss.NewStyle().Foreground(colorGray)
	cautionLamp = lipgloss.NewStyle().Background(colorAmber).Foreground(colorPanel).Bold(true).Padding(0, 1)
	warningLamp = lipgloss.NewStyle().Background(colorRed).Foreground(colorWhite).Bold(true).Padding(0, 1)
)

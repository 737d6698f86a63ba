package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText     lipgloss.Color = "#cdd6f4"
	colorMuted    lipgloss.Color = "#a6adc8"
	colorBorder   lipgloss.Color = "#585b70"
	colorAccent   lipgloss.Color = "#89b4fa"
	colorSuccess  lipgloss.Color = "#a6e3a1"
	colorError    lipgloss.Color = "#f38ba8"
	colorWarm     lipgloss.Color = "#fab387"
	colorMantle   lipgloss.Color = "#181825"
	colorSurface0 lipgloss.Color = "#313244"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	downStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	idleStyle = lipgloss.NewStyle().Foreground(colorMuted)
	edgeStyle = lipgloss.NewStyle().Foreground(colorWarm).Bold(true)

	logKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	logTimeStyle = lipgloss.NewStyle().Foreground(colorBorder)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Background(colorSurface0)
	statusErrBarStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Background(colorSurface0)
	footerStyle = lipgloss.NewStyle().
			Background(colorMantle)

	chartLineStyle  = lipgloss.NewStyle().Foreground(colorWarm)
	chartAxisStyle  = lipgloss.NewStyle().Foreground(colorBorder)
	chartLabelStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

package tui

import (
	"fmt"
	"strings"
	"time"

	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/jaskinput/profile"
)

const chartHeight = 8

var systemKeys = []key.Binding{
	key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "history")),
	key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "toggle order")),
	key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

var historyKeys = []key.Binding{
	key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "select")),
	key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "action counts")),
	key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "live")),
	key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 80
	}
	var body string
	keys := systemKeys
	switch a.state {
	case viewHistory:
		body = a.renderHistory(width)
		keys = historyKeys
	default:
		body = a.renderLive(width)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		a.renderStatusBar(width),
		renderFooter(width, keys),
	)
}

func (a *App) renderLive(width int) string {
	title := titleStyle.Render("jaskinput")
	head := fmt.Sprintf("%s  profile %q", title, a.prof.Name)
	if a.deps.SessionID != "" {
		head += idleStyle.Render("  session " + shortID(a.deps.SessionID))
	}
	if a.deps.Recorder != nil {
		head += edgeStyle.Render("  REC")
	}

	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	bindings := paneStyle.Render(a.renderBindings(inner))
	chart := paneStyle.Render(a.renderChart(inner))
	log := paneStyle.Render(a.renderLog(inner))

	return lipgloss.JoinVertical(lipgloss.Left, head, bindings, chart, log)
}

func (a *App) renderBindings(width int) string {
	names := Actions()
	order := "precedence order"
	if !a.sorted {
		order = "profile order"
	}
	lines := make([]string, 0, len(a.prof.Bindings)+1)
	lines = append(lines, titleStyle.Render("Bindings")+idleStyle.Render("  "+order))
	for _, sig := range a.manager.Bindings() {
		b := profile.Find(a.prof, sig.ID())
		if b == nil {
			continue
		}
		act, ok := names[b.Action]
		if !ok {
			continue
		}
		glyph := idleStyle.Render("○")
		switch {
		case a.manager.JustPressed(act):
			glyph = edgeStyle.Render("◉")
		case a.manager.Down(act):
			glyph = downStyle.Render("●")
		}
		line := fmt.Sprintf("%s %-12s %-6s %-26s prec %3d  hits %d",
			glyph, b.Action, b.Kind, gestureText(*b), b.Precedence, a.totals[act])
		if b.Kind == profile.KindAxis {
			line += fmt.Sprintf("  value %+.0f", a.manager.Value(act))
		}
		if b.Exclusive != nil && *b.Exclusive {
			line += idleStyle.Render("  claims")
		}
		lines = append(lines, ansi.Truncate(line, width, "…"))
	}
	return strings.Join(lines, "\n")
}

func gestureText(b profile.Binding) string {
	switch b.Kind {
	case profile.KindChord:
		return strings.Join(b.Sequence, " ")
	case profile.KindAxis:
		return strings.Join(b.Negative, ",") + " / " + strings.Join(b.Positive, ",")
	default:
		return strings.Join(b.Keys, ", ")
	}
}

func (a *App) renderChart(width int) string {
	now := a.now
	if now.IsZero() {
		now = time.Now()
	}
	end := now.Truncate(time.Second)
	start := end.Add(-time.Duration(a.chartWindowS()) * time.Second)

	perSecond := make(map[int64]float64)
	for _, t := range a.presses {
		s := t.Truncate(time.Second)
		if s.Before(start) || s.After(end) {
			continue
		}
		perSecond[s.Unix()]++
	}
	maxVal := 1.0
	for _, v := range perSecond {
		if v > maxVal {
			maxVal = v
		}
	}

	chart := tslc.New(width, chartHeight)
	chart.SetXStep(1)
	chart.SetStyle(chartLineStyle)
	chart.AxisStyle = chartAxisStyle
	chart.LabelStyle = chartLabelStyle
	chart.SetTimeRange(start, end)
	chart.SetViewTimeRange(start, end)
	chart.SetYRange(0, maxVal)
	chart.SetViewYRange(0, maxVal)
	for s := start; !s.After(end); s = s.Add(time.Second) {
		chart.Push(tslc.TimePoint{Time: s, Value: perSecond[s.Unix()]})
	}
	chart.DrawBraille()
	return titleStyle.Render("Presses per second") + "\n" + chart.View()
}

func (a *App) renderLog(width int) string {
	lines := []string{titleStyle.Render("Recent presses")}
	n := a.cfg.UI.LogLines
	if n <= 0 {
		n = 8
	}
	entries := a.log
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	if len(entries) == 0 {
		lines = append(lines, idleStyle.Render("(none yet)"))
	}
	for _, e := range entries {
		line := logTimeStyle.Render(e.at.Format("15:04:05.000")) +
			" " + logKeyStyle.Render(fmt.Sprintf("%-10s", e.key)) +
			" " + e.action
		lines = append(lines, ansi.Truncate(line, width, "…"))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderHistory(width int) string {
	lines := []string{titleStyle.Render("Session history")}
	if len(a.sessions) == 0 {
		lines = append(lines, idleStyle.Render("(no sessions recorded)"))
	}
	for i, s := range a.sessions {
		marker := " "
		if i == a.histCursor {
			marker = "▶"
		}
		span := "open"
		if s.EndedAt != nil {
			span = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
		}
		name := s.Profile
		if name == "" {
			name = "(unnamed)"
		}
		line := fmt.Sprintf("%s %s  %-12s %s  %s",
			marker, s.StartedAt.Local().Format("Jan 02 15:04:05"), name, shortID(s.ID), span)
		lines = append(lines, ansi.Truncate(line, width-4, "…"))
	}
	if len(a.counts) > 0 {
		lines = append(lines, "", titleStyle.Render("Action counts"))
		for _, c := range a.counts {
			lines = append(lines, fmt.Sprintf("  %-12s %d", c.Action, c.Count))
		}
	}
	return paneStyle.Render(strings.Join(lines, "\n"))
}

func (a *App) renderStatusBar(width int) string {
	msg := strings.TrimSpace(a.status)
	if msg == "" {
		msg = "Ready"
	}
	if a.statusErr {
		return renderBar(statusErrBarStyle, width, msg, colorSurface0)
	}
	return renderBar(statusBarStyle, width, msg, colorSurface0)
}

func renderFooter(width int, bindings []key.Binding) string {
	bg := colorMantle
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Background(bg)
	descStyle := lipgloss.NewStyle().Foreground(colorMuted).Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" && h.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(h.Key)+space+descStyle.Render(h.Desc))
	}
	return renderBar(footerStyle, width, strings.Join(parts, sep), bg)
}

func renderBar(style lipgloss.Style, width int, text string, bg lipgloss.TerminalColor) string {
	line := strings.ReplaceAll(text, "\n", " ")
	line = ansi.Truncate(line, width, "")
	lineW := ansi.StringWidth(line)
	if lineW < width {
		line += strings.Repeat(" ", width-lineW)
	}
	return style.
		Background(bg).
		Width(width).
		MaxWidth(width).
		Render(line)
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/report"
	"github.com/litescript/ls-orbits/internal/rst"
	"github.com/litescript/ls-orbits/internal/state"
)

// Styles for the dashboard
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	upStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("46"))

	downStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	cautionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// DashboardOpenBodyMsg requests the detail view for a body.
type DashboardOpenBodyMsg struct {
	Name string
}

// DashboardModel lists every catalog body with its position and events.
type DashboardModel struct {
	width    int
	height   int
	cursor   int
	keys     KeyMap
	snapshot state.Snapshot
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(keys KeyMap) DashboardModel {
	return DashboardModel{keys: keys}
}

// SetSize updates the viewport size.
func (m DashboardModel) SetSize(width, height int) DashboardModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m DashboardModel) UpdateData(snapshot state.Snapshot) DashboardModel {
	m.snapshot = snapshot
	if m.cursor >= len(snapshot.Bodies) {
		m.cursor = max(len(snapshot.Bodies)-1, 0)
	}
	return m
}

// Update handles messages.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	n := len(m.snapshot.Bodies)
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Home):
		m.cursor = 0
	case key.Matches(keyMsg, m.keys.End):
		if n > 0 {
			m.cursor = n - 1
		}
	case key.Matches(keyMsg, m.keys.Enter):
		if name := m.SelectedBody(); name != "" {
			return m, func() tea.Msg { return DashboardOpenBodyMsg{Name: name} }
		}
	}
	return m, nil
}

// SelectedBody returns the name under the cursor, or "" if there are no bodies.
func (m DashboardModel) SelectedBody() string {
	if m.cursor < 0 || m.cursor >= len(m.snapshot.Bodies) {
		return ""
	}
	return m.snapshot.Bodies[m.cursor].Name
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	var b strings.Builder

	if m.snapshot.LastError != nil {
		b.WriteString(errorStyle.Render("Catalog: " + m.snapshot.LastError.Error()))
		b.WriteString("\n\n")
	}

	if m.snapshot.LastUpdate.IsZero() {
		b.WriteString("Computing positions...\n")
		return b.String()
	}

	b.WriteString(m.renderObserver())
	b.WriteString("\n\n")
	b.WriteString(m.renderBodiesTable())
	b.WriteString("\n")
	b.WriteString(m.renderEvents(5))

	return b.String()
}

func (m DashboardModel) renderObserver() string {
	obs := m.snapshot.Observer
	name := obs.Name
	if name == "" {
		name = "observer"
	}
	line := fmt.Sprintf("%s  %.4f, %.4f  horizon %+.4f°  JD %.5f  %s UTC",
		name, obs.LatDeg, obs.LonDeg, m.snapshot.Horizon, m.snapshot.JD,
		astro.TimeFromJD(m.snapshot.JD).Format("2006-01-02 15:04:05"))
	return titleStyle.Render("Sky") + "\n  " + rowStyle.Render(line)
}

func (m DashboardModel) renderBodiesTable() string {
	var b strings.Builder

	header := fmt.Sprintf("%-12s %-8s %-12s %-10s %6s %6s %-10s %-6s %-6s %-6s %-8s",
		"Body", "Alt", "RA", "Dec", "Az", "Δ AU", "", "Rise", "Trans", "Set", "Sun")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	bodies := m.snapshot.Bodies
	if len(bodies) == 0 {
		b.WriteString("  Catalog is empty\n")
		return b.String()
	}

	maxRows := m.height - 12
	if maxRows < 5 {
		maxRows = 5
	}

	startIdx := 0
	if m.cursor >= maxRows {
		startIdx = m.cursor - maxRows + 1
	}
	endIdx := min(startIdx+maxRows, len(bodies))

	for i := startIdx; i < endIdx; i++ {
		body := bodies[i]
		p := body.Position

		row := fmt.Sprintf("%-12s %+7.2f° %-12s %-10s %6.1f %6.3f %s %-6s %-6s %-6s %-8s",
			truncate(body.Name, 12),
			p.Altitude,
			report.FormatRA(p.RA),
			report.FormatDec(p.Dec),
			p.Azimuth,
			p.EarthDistance,
			renderAltitudeBar(p.Altitude, 10),
			formatEventClock(body.RST.Rise),
			formatEventClock(body.RST.Transit),
			formatEventClock(body.RST.Set),
			fmt.Sprintf("%.0f°", body.SunSep),
		)

		switch {
		case i == m.cursor:
			b.WriteString(selectedRowStyle.Render(row))
		case body.SunTier != astro.SunSepSafe:
			b.WriteString(cautionStyle.Render(row))
		case body.Up(m.snapshot.Horizon):
			b.WriteString(upStyle.Render(row))
		default:
			b.WriteString(rowStyle.Render(row))
		}
		if note := statusNote(body.RST.Status); note != "" {
			b.WriteString(" " + downStyle.Render(note))
		}
		b.WriteString("\n")
	}

	if len(bodies) > maxRows {
		b.WriteString(fmt.Sprintf("\n  Showing %d-%d of %d bodies", startIdx+1, endIdx, len(bodies)))
	}

	return b.String()
}

func (m DashboardModel) renderEvents(n int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recent events"))
	b.WriteString("\n")

	events := m.snapshot.Events
	if len(events) == 0 {
		b.WriteString(downStyle.Render("  none yet"))
		b.WriteString("\n")
		return b.String()
	}
	if len(events) > n {
		events = events[len(events)-n:]
	}
	for i := len(events) - 1; i >= 0; i-- {
		b.WriteString("  " + formatStateEvent(events[i]) + "\n")
	}
	return b.String()
}

// renderAltitudeBar draws the altitude above the horizon as a bar in brackets.
// Bodies below the horizon get an empty bar.
func renderAltitudeBar(alt float64, width int) string {
	filled := int(alt / 90 * float64(width))
	filled = min(max(filled, 0), width)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	r, g, bl := interpolateElevColor(alt / 90)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, bl)))
	return "[" + style.Render(bar) + "]"
}

// formatEventClock formats an event as HH:MM UTC, or dashes if absent.
func formatEventClock(ev rst.Event) string {
	if !ev.Valid {
		return "--:--"
	}
	return ev.Time().Format("15:04")
}

// statusNote is the short annotation for a day without rise and set.
func statusNote(s rst.Status) string {
	switch s {
	case rst.AlwaysAboveHorizon:
		return "circumpolar"
	case rst.AlwaysBelowHorizon:
		return "never rises"
	case rst.NotFoundWithinLimit:
		return "not found"
	default:
		return ""
	}
}

func formatStateEvent(e state.Event) string {
	ts := e.Timestamp.UTC().Format("15:04:05")
	switch e.Type {
	case state.EventCatalogReload:
		return fmt.Sprintf("%s  %-14s %s", ts, e.Type, e.Detail)
	default:
		return fmt.Sprintf("%s  %-14s %-12s %+.1f°", ts, e.Type, e.Body, e.Altitude)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

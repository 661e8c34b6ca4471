package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/catalog"
	"github.com/litescript/ls-orbits/internal/report"
	"github.com/litescript/ls-orbits/internal/rst"
	"github.com/litescript/ls-orbits/internal/state"
)

// PlanDays is how far ahead the detail view plans passes.
const PlanDays = 3

// BodyChangedMsg signals the body shown in the detail view changed.
type BodyChangedMsg struct {
	Name string
}

// detailComputedMsg carries a trace and plan computed off the UI goroutine.
type detailComputedMsg struct {
	name  string
	jd    float64
	trace *rst.AltitudeTrace
	plan  *rst.Plan
	err   error
}

// DetailModel shows one body: its position, today's events, an altitude
// sparkline and the upcoming passes.
type DetailModel struct {
	width    int
	height   int
	keys     KeyMap
	selected string
	snapshot state.Snapshot
	viewport viewport.Model
	animTick int

	trace    *rst.AltitudeTrace
	plan     *rst.Plan
	computed float64 // JD the trace and plan were computed for
	loading  bool
	err      error
}

// NewDetailModel creates a new detail model.
func NewDetailModel(keys KeyMap) DetailModel {
	return DetailModel{
		keys:     keys,
		viewport: viewport.New(80, 20),
	}
}

// SetSize updates the viewport size.
func (m DetailModel) SetSize(width, height int) DetailModel {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height, 1)
	m.syncContent()
	return m
}

// SetAnimTick updates the animation tick for shimmer effects.
func (m DetailModel) SetAnimTick(tick int) DetailModel {
	m.animTick = tick
	if m.loading {
		m.syncContent()
	}
	return m
}

// UpdateData updates with a new snapshot, selecting the first body if none is.
func (m DetailModel) UpdateData(snapshot state.Snapshot) DetailModel {
	m.snapshot = snapshot
	if m.current() == nil && len(snapshot.Bodies) > 0 {
		m.selected = snapshot.Bodies[0].Name
		m.resetComputed()
	}
	m.syncContent()
	return m
}

// SetSelected shows name.
func (m DetailModel) SetSelected(name string) DetailModel {
	if name != m.selected {
		m.selected = name
		m.resetComputed()
		m.viewport.GotoTop()
	}
	m.syncContent()
	return m
}

// Selected returns the body shown.
func (m DetailModel) Selected() string {
	return m.selected
}

// NeedsCompute reports whether the trace and plan are missing or stale.
func (m DetailModel) NeedsCompute() bool {
	if m.selected == "" || m.loading || m.snapshot.JD == 0 {
		return false
	}
	return m.trace == nil || m.snapshot.JD-m.computed > rst.TraceStep
}

// StartCompute marks the trace as loading and returns the command that
// computes it.
func (m DetailModel) StartCompute(cat *catalog.Catalog) (DetailModel, tea.Cmd) {
	m.loading = true
	m.syncContent()
	return m, computeDetailCmd(cat, m.selected, m.snapshot.Observer, m.snapshot.Horizon, m.snapshot.JD)
}

func (m *DetailModel) resetComputed() {
	m.trace = nil
	m.plan = nil
	m.computed = 0
	m.loading = false
	m.err = nil
}

func (m DetailModel) applyComputed(msg detailComputedMsg) DetailModel {
	if msg.name != m.selected {
		// Stale result for a body no longer shown.
		return m
	}
	m.loading = false
	m.trace = msg.trace
	m.plan = msg.plan
	m.computed = msg.jd
	m.err = msg.err
	m.syncContent()
	return m
}

func computeDetailCmd(cat *catalog.Catalog, name string, obs astro.Observer, horizon, jd float64) tea.Cmd {
	return func() tea.Msg {
		body, err := cat.Get(name)
		if err != nil {
			return detailComputedMsg{name: name, jd: jd, err: err}
		}
		return detailComputedMsg{
			name:  name,
			jd:    jd,
			trace: rst.ComputeTraceAround(body, obs, jd),
			plan:  rst.ComputePlan(body.Name, body, obs, horizon, jd, PlanDays, jd),
		}
	}
}

// Update handles messages.
func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(keyMsg, m.keys.Prev):
		cmd = m.step(-1)
	case key.Matches(keyMsg, m.keys.Next):
		cmd = m.step(1)
	case key.Matches(keyMsg, m.keys.Home):
		m.viewport.GotoTop()
	case key.Matches(keyMsg, m.keys.End):
		m.viewport.GotoBottom()
	default:
		// The viewport's own key map scrolls on up/down and paging keys.
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// step moves the selection by delta bodies, wrapping around.
func (m *DetailModel) step(delta int) tea.Cmd {
	bodies := m.snapshot.Bodies
	if len(bodies) == 0 {
		return nil
	}
	idx := 0
	for i, b := range bodies {
		if b.Name == m.selected {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(bodies)) % len(bodies)
	name := bodies[idx].Name
	if name == m.selected {
		return nil
	}
	*m = m.SetSelected(name)
	return func() tea.Msg { return BodyChangedMsg{Name: name} }
}

func (m DetailModel) current() *state.BodyState {
	for i := range m.snapshot.Bodies {
		if m.snapshot.Bodies[i].Name == m.selected {
			return &m.snapshot.Bodies[i]
		}
	}
	return nil
}

// View renders the detail view.
func (m DetailModel) View() string {
	return m.viewport.View()
}

func (m *DetailModel) syncContent() {
	m.viewport.SetContent(m.renderContent())
}

func (m DetailModel) renderContent() string {
	body := m.current()
	if body == nil {
		return "No body selected"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%s)", body.Name, body.Kind)))
	b.WriteString("\n\n")
	b.WriteString(m.renderPosition(*body))
	b.WriteString("\n")
	b.WriteString(m.renderToday(*body))
	b.WriteString("\n")
	b.WriteString(m.renderAltitudeSparkline())
	b.WriteString("\n\n")
	b.WriteString(m.renderPassPanel())
	return b.String()
}

func (m DetailModel) renderPosition(body state.BodyState) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	p := body.Position
	rows := [][2]string{
		{"RA / Dec (date)", report.FormatRA(p.RA) + "  " + report.FormatDec(p.Dec)},
		{"RA / Dec (J2000)", report.FormatRA(p.RAJ2000) + "  " + report.FormatDec(p.DecJ2000)},
		{"Alt / Az", fmt.Sprintf("%+.2f°  %.2f°", p.Altitude, p.Azimuth)},
		{"Sun distance", report.FormatDistance(p.SolarDistance)},
		{"Earth distance", report.FormatDistance(p.EarthDistance)},
		{"Light time", formatDuration(time.Duration(p.LightTime * float64(time.Minute)))},
		{"Elongation", fmt.Sprintf("%.1f°", p.Elongation)},
		{"Phase angle", fmt.Sprintf("%.1f°", p.PhaseAngle)},
		{"Sun separation", fmt.Sprintf("%.1f° %s", body.SunSep, body.SunTier)},
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString("  " + labelStyle.Render(fmt.Sprintf("%-18s", r[0])) + valueStyle.Render(r[1]) + "\n")
	}
	if !p.Converged {
		b.WriteString("  " + cautionStyle.Render("anomaly solver did not converge; position is approximate") + "\n")
	}
	return b.String()
}

func (m DetailModel) renderToday(body state.BodyState) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	res := body.RST

	var b strings.Builder
	b.WriteString(labelStyle.Render("  TODAY (UT)  "))
	b.WriteString(fmt.Sprintf("rise %s  transit %s  set %s",
		formatEventClock(res.Rise), formatEventClock(res.Transit), formatEventClock(res.Set)))
	if res.Transit.Valid {
		b.WriteString(fmt.Sprintf("  culminates %+.1f°", res.TransitAltitude))
	}
	if note := statusNote(res.Status); note != "" {
		b.WriteString("  " + downStyle.Render(note))
	}
	b.WriteString("\n")
	return b.String()
}

// SparklineWidth is the fixed width of the altitude sparkline.
const SparklineWidth = 48

// sparklineBlocks are the Unicode block characters for sparkline (0 = lowest, 7 = highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// elevColorLow is the color for low altitude (dark blue).
var elevColorLow = [3]uint8{0x1b, 0x2b, 0x4b}

// elevColorMid is the color for mid altitude (blue).
var elevColorMid = [3]uint8{0x34, 0x78, 0xc0}

// elevColorHigh is the color for high altitude (cyan).
var elevColorHigh = [3]uint8{0x8b, 0xe9, 0xff}

// renderAltitudeSparkline renders the altitude trace as a sparkline.
func (m DetailModel) renderAltitudeSparkline() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	if m.err != nil {
		return dimStyle.Render("Error: " + m.err.Error())
	}
	if m.trace == nil {
		return m.renderShimmerSparkline("Computing altitude trace...")
	}

	samples := resampleAltitude(m.trace.Samples, SparklineWidth)
	if len(samples) == 0 {
		return dimStyle.Render("No altitude samples")
	}

	var sb strings.Builder
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	sb.WriteString(labelStyle.Render("±12h"))
	sb.WriteString(" ")

	for _, alt := range samples {
		t := min(max(alt, 0), 90) / 90.0

		blockIdx := min(int(t*7.0), 7)
		r, g, b := interpolateElevColor(t)
		color := fmt.Sprintf("#%02x%02x%02x", r, g, b)

		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(sparklineBlocks[blockIdx])))
	}

	if alt, ok := currentAltitude(m.trace, m.snapshot.JD); ok {
		nowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
		sb.WriteString(nowStyle.Render(fmt.Sprintf(" now: %.0f°", alt)))
	}
	if peak := m.trace.Peak(); peak != nil {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  peak %.0f° at %s", peak.Altitude,
			astro.TimeFromJD(peak.JD).Format("15:04"))))
	}

	return sb.String()
}

// renderShimmerSparkline renders a loading animation sparkline.
func (m DetailModel) renderShimmerSparkline(msg string) string {
	var sb strings.Builder

	offset := m.animTick % SparklineWidth
	for i := 0; i < SparklineWidth; i++ {
		dist := (i - offset + SparklineWidth) % SparklineWidth
		gray := 60
		if dist < 8 {
			gray += dist * 8
		}
		color := fmt.Sprintf("#%02x%02x%02x", gray, gray, gray)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("▄"))
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	sb.WriteString(" ")
	sb.WriteString(dimStyle.Render(msg))

	return sb.String()
}

// interpolateElevColor returns RGB color for altitude fraction t in [0, 1].
// Gradient: low (dark blue) → mid (blue) → high (cyan).
func interpolateElevColor(t float64) (uint8, uint8, uint8) {
	t = min(max(t, 0), 1)

	lo, hi, s := elevColorLow, elevColorMid, t*2
	if t >= 0.5 {
		lo, hi, s = elevColorMid, elevColorHigh, (t-0.5)*2
	}

	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-s) + float64(b)*s)
	}
	return mix(lo[0], hi[0]), mix(lo[1], hi[1]), mix(lo[2], hi[2])
}

// currentAltitude interpolates the trace at jd, falling back to the
// nearest sample when the trace is too short.
func currentAltitude(trace *rst.AltitudeTrace, jd float64) (float64, bool) {
	if alt, ok := trace.AltitudeAt(jd); ok {
		return alt, true
	}
	if s := trace.Nearest(jd); s != nil {
		return s.Altitude, true
	}
	return 0, false
}

// resampleAltitude averages samples into a fixed number of buckets.
func resampleAltitude(samples []rst.AltitudeSample, width int) []float64 {
	if len(samples) == 0 || width <= 0 {
		return nil
	}

	result := make([]float64, width)
	samplesPerBucket := float64(len(samples)) / float64(width)

	for i := 0; i < width; i++ {
		startIdx := int(float64(i) * samplesPerBucket)
		endIdx := min(int(float64(i+1)*samplesPerBucket), len(samples))
		if startIdx >= endIdx {
			startIdx = endIdx - 1
		}
		startIdx = max(startIdx, 0)

		sum := 0.0
		count := 0
		for j := startIdx; j < endIdx; j++ {
			sum += samples[j].Altitude
			count++
		}
		if count > 0 {
			result[i] = sum / float64(count)
		}
	}

	return result
}

func (m DetailModel) renderPassPanel() string {
	var b strings.Builder

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	nowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	nextStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229"))

	b.WriteString(titleStyle.Render(fmt.Sprintf("PASSES (next %d days)", PlanDays)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")

	if m.plan == nil {
		b.WriteString("  ")
		b.WriteString(m.renderShimmerText("Computing pass schedule..."))
		b.WriteString("\n")
		return b.String()
	}
	if len(m.plan.Passes) == 0 {
		b.WriteString(dimStyle.Render("  -- no passes --"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(labelStyle.Render("  RISE              PEAK     SET          LENGTH    SUN   STATUS"))
	b.WriteString("\n")

	for _, p := range m.plan.Passes {
		rise := astro.TimeFromJD(p.Rise)
		set := astro.TimeFromJD(p.Set)
		line := fmt.Sprintf("  %s  %5.1f°  %s  %-8s %4.0f°  ",
			rise.Format("01-02 15:04"),
			p.MaxAltitude,
			set.Format("01-02 15:04"),
			formatDuration(set.Sub(rise)),
			p.SunSep,
		)
		b.WriteString(valueStyle.Render(line))

		switch p.Status {
		case rst.PassNow:
			b.WriteString(nowStyle.Render(p.Status.String()))
		case rst.PassNext:
			b.WriteString(nextStyle.Render(p.Status.String()))
		default:
			b.WriteString(dimStyle.Render(p.Status.String()))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "now"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m DetailModel) renderShimmerText(text string) string {
	return shimmer(text, m.animTick)
}

func shimmer(text string, tick int) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	pos := tick % (len(runes) + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 180, 160, 220
		case dist <= 3:
			r8, g8, b8 = 140, 120, 180
		case dist <= 5:
			r8, g8, b8 = 110, 90, 150
		default:
			r8, g8, b8 = 80, 70, 120
		}

		hexColor := fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)
		result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor)).Render(string(r)))
	}

	return result.String()
}

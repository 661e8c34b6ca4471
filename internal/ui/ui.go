// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orbits/internal/catalog"
	"github.com/litescript/ls-orbits/internal/state"
	"github.com/litescript/ls-orbits/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewDashboard ViewMode = iota
	ViewDetail
)

const viewCount = 2

// Msg types for Bubble Tea
type (
	// TickMsg triggers a recomputation of the sky.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals a new snapshot is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// CatalogReloadMsg reports a reload of the catalog file.
	CatalogReloadMsg struct {
		Reload catalog.Reload
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	state *state.Manager
	keys  KeyMap
	now   func() time.Time

	viewMode ViewMode
	width    int
	height   int
	ready    bool
	animTick int
	spinner  spinner.Model

	dashboard DashboardModel
	detail    DetailModel

	snapshot state.Snapshot
}

// New creates a new root UI model reading from stateMgr.
func New(stateMgr *state.Manager) Model {
	keys := DefaultKeyMap()

	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return Model{
		state:     stateMgr,
		keys:      keys,
		now:       time.Now,
		viewMode:  ViewDashboard,
		spinner:   s,
		dashboard: NewDashboardModel(keys),
		detail:    NewDetailModel(keys),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.refreshCmd(),
		tickCmd(m.state.RefreshInterval()),
		animTickCmd(),
		m.spinner.Tick,
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Dashboard):
			m.viewMode = ViewDashboard
		case key.Matches(msg, m.keys.Detail):
			m.viewMode = ViewDetail
			cmds = append(cmds, m.maybeComputeDetail())
		case key.Matches(msg, m.keys.Tab):
			m.viewMode = (m.viewMode + 1) % viewCount
			cmds = append(cmds, m.maybeComputeDetail())
		case key.Matches(msg, m.keys.Back):
			m.viewMode = ViewDashboard
		case key.Matches(msg, m.keys.Refresh):
			cmds = append(cmds, m.refreshCmd())
		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo takes ~10 lines, footer ~2 lines
		contentHeight := msg.Height - 13
		m.dashboard = m.dashboard.SetSize(msg.Width, contentHeight)
		m.detail = m.detail.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, m.refreshCmd(), tickCmd(m.state.RefreshInterval()))

	case DataUpdateMsg:
		m.snapshot = msg.Snapshot
		m.dashboard = m.dashboard.UpdateData(m.snapshot)
		m.detail = m.detail.UpdateData(m.snapshot)
		cmds = append(cmds, m.maybeComputeDetail())

	case CatalogReloadMsg:
		m.state.NotifyReload(msg.Reload, m.now())
		cmds = append(cmds, m.refreshCmd())

	case DashboardOpenBodyMsg:
		m.detail = m.detail.SetSelected(msg.Name)
		m.viewMode = ViewDetail
		cmds = append(cmds, m.maybeComputeDetail())

	case BodyChangedMsg:
		cmds = append(cmds, m.maybeComputeDetail())

	case detailComputedMsg:
		m.detail = m.detail.applyComputed(msg)

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++
		m.detail = m.detail.SetAnimTick(m.animTick)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	}
	return cmd
}

// maybeComputeDetail starts a trace and plan computation for the detail
// view when it is visible and its data is stale.
func (m *Model) maybeComputeDetail() tea.Cmd {
	if m.viewMode != ViewDetail || !m.detail.NeedsCompute() {
		return nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.StartCompute(m.state.Catalog())
	return cmd
}

// refreshCmd recomputes the sky off the UI goroutine.
func (m Model) refreshCmd() tea.Cmd {
	mgr, now := m.state, m.now
	return func() tea.Msg {
		mgr.Update(now())
		return DataUpdateMsg{Snapshot: mgr.Snapshot()}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewDashboard:
		content = m.dashboard.View()
	case ViewDetail:
		content = m.detail.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ██╗     ███████╗       ██████╗ ██████╗ ██████╗ ██╗████████╗███████╗`,
		`  ██║     ██╔════╝      ██╔═══██╗██╔══██╗██╔══██╗██║╚══██╔══╝██╔════╝`,
		`  ██║     ███████╗█████╗██║   ██║██████╔╝██████╔╝██║   ██║   ███████╗`,
		`  ██║     ╚════██║╚════╝██║   ██║██╔══██╗██╔══██╗██║   ██║   ╚════██║`,
		`  ███████╗███████║      ╚██████╔╝██║  ██║██████╔╝██║   ██║   ███████║`,
		`  ╚══════╝╚══════╝       ╚═════╝ ╚═╝  ╚═╝╚═════╝ ╚═╝   ╚═╝   ╚══════╝`,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(col, row, len(runes), len(logo))
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  Orbits · Rise, Transit and Set | v%s", version.Version)))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient.
// Blue -> purple -> magenta -> pink, darker toward the bottom.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64
	switch {
	case xRatio < 0.33:
		t := xRatio / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	case xRatio < 0.66:
		t := (xRatio - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	default:
		t := (xRatio - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	brightness := 1.0 - (yRatio * 0.5)
	clamp := func(v float64) int {
		return min(max(int(v*brightness), 0), 255)
	}

	return fmt.Sprintf("#%02X%02X%02X", clamp(r), clamp(g), clamp(b))
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Sky", "[2] Body"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	var status string
	if !m.snapshot.LastUpdate.IsZero() {
		countdown := max(m.snapshot.NextRefresh.Sub(m.now()).Round(time.Second), 0)
		status = accentStyle.Render(m.spinner.View()) + dimStyle.Render(fmt.Sprintf(" refresh in %ds", int(countdown.Seconds())))
		if m.snapshot.ComputeDuration > 0 {
			status += dimStyle.Render(" (" + m.snapshot.ComputeDuration.Round(time.Millisecond).String() + ")")
		}
	} else {
		status = accentStyle.Render(m.spinner.View()) + " " + shimmer("Computing positions...", m.animTick)
	}

	var help string
	switch m.viewMode {
	case ViewDetail:
		help = helpLine(m.keys.Prev, m.keys.Next, m.keys.Up, m.keys.Down, m.keys.Back)
	default:
		help = helpLine(m.keys.Up, m.keys.Down, m.keys.Enter, m.keys.Tab, m.keys.Refresh, m.keys.Quit)
	}

	return "  " + status + "  " + dimStyle.Render("|") + "  " + dimStyle.Render(help)
}

func tickCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		d = state.DefaultConfig().RefreshInterval
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

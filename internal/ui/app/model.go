package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	insightdto "fivepillars/internal/modules/insight/dto"
	trackerdto "fivepillars/internal/modules/tracker/dto"
	"fivepillars/internal/ui/components"
	"fivepillars/internal/ui/theme"
	achievementsview "fivepillars/internal/ui/views/achievements"
	insightsview "fivepillars/internal/ui/views/insights"
	overviewview "fivepillars/internal/ui/views/overview"
	providersview "fivepillars/internal/ui/views/providers"
	sessionsview "fivepillars/internal/ui/views/sessions"
)

const (
	refreshInterval = 30 * time.Second
	sessionLimit    = 100
)

// ─── ports ───────────────────────────────────────────────────────────────────

type trackerPort interface {
	Status(ctx context.Context) (trackerdto.Overview, error)
	AddSession(ctx context.Context, pillar, kind string, minutes, quality int, mood, notes string) (trackerdto.AddSessionOutput, error)
	ListSessions(ctx context.Context, pillar string, limit int) ([]trackerdto.SessionView, error)
	SetScores(ctx context.Context, assignments []string) (trackerdto.ScoresOutput, error)
	ListAchievements(ctx context.Context) ([]trackerdto.AchievementView, error)
	ListInsights(ctx context.Context, unreadOnly bool) ([]trackerdto.InsightView, error)
	MarkInsightRead(ctx context.Context, id string) (bool, error)
	Streak(ctx context.Context) (trackerdto.StreakOutput, error)
	Sync(ctx context.Context) (time.Time, error)
}

type providerPort interface {
	List(ctx context.Context) ([]insightdto.ProviderInfo, error)
	Run(ctx context.Context, name string) (insightdto.RunOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabOverview tabID = iota
	tabSessions
	tabAchievements
	tabInsights
	tabProviders
	tabCount
)

var tabLabels = [tabCount]string{
	"Overview", "Sessions", "Achievements", "Insights", "Providers",
}

// ─── async messages ───────────────────────────────────────────────────────────

type snapshot struct {
	overview     trackerdto.Overview
	sessions     []trackerdto.SessionView
	achievements []trackerdto.AchievementView
	insights     []trackerdto.InsightView
}

type refreshedMsg struct {
	data snapshot
	err  error
}

type tickMsg time.Time

// actionDoneMsg carries the status line for a palette action; a nil err
// triggers a refresh.
type actionDoneMsg struct {
	status string
	err    error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Refresh key.Binding
	Enter   key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "mark read / run provider")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter, k.Refresh},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the refresh loop,
// the help overlay and the command palette; rendering is delegated to the
// per-tab views.
type Model struct {
	tracker   trackerPort
	providers providerPort

	overviewView     overviewview.Model
	sessionsView     sessionsview.Model
	achievementsView achievementsview.Model
	insightsView     insightsview.Model
	providersView    providersview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(tracker trackerPort, providers providerPort) Model {
	return Model{
		tracker:          tracker,
		providers:        providers,
		overviewView:     overviewview.New(),
		sessionsView:     sessionsview.New(),
		achievementsView: achievementsview.New(),
		insightsView:     insightsview.New(tracker),
		providersView:    providersview.New(providers),
		activeTab:        tabOverview,
		keys:             defaultKeys(),
		help:             help.New(),
		palette:          components.NewPalette(),
		status:           "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.providersView.Init(), tick())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refreshCmd(), tick())

	case refreshedMsg:
		if msg.err != nil {
			m.status = "refresh: " + msg.err.Error()
			return m, nil
		}
		m.overviewView.SetData(msg.data.overview)
		cmds = append(cmds,
			m.sessionsView.SetSessions(msg.data.sessions),
			m.achievementsView.SetAchievements(msg.data.achievements),
			m.insightsView.SetInsights(msg.data.insights),
		)
		return m, tea.Batch(cmds...)

	case actionDoneMsg:
		if msg.err != nil {
			m.status = msg.status + ": " + msg.err.Error()
			return m, nil
		}
		m.status = msg.status
		return m, m.refreshCmd()

	case insightsview.MarkedMsg:
		switch {
		case msg.Err != nil:
			m.status = "mark read: " + msg.Err.Error()
		case !msg.Found:
			m.status = "no insight " + msg.ID
		default:
			m.status = "insight marked read"
		}
		return m, m.refreshCmd()

	case providersview.RunDoneMsg:
		if msg.Err != nil {
			m.status = "provider: " + msg.Err.Error()
		} else {
			m.status = fmt.Sprintf("%s stored %d insights", msg.Out.Provider, msg.Out.Stored)
			cmds = append(cmds, m.refreshCmd())
		}

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the list filter so typed keys reach it.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "r":
			m.status = "refreshing"
			return m, m.refreshCmd()
		}
	}

	cmds = append(cmds, m.updateActive(msg))
	return m, tea.Batch(cmds...)
}

func (m *Model) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.activeTab {
	case tabOverview:
		m.overviewView, cmd = m.overviewView.Update(msg)
	case tabSessions:
		m.sessionsView, cmd = m.sessionsView.Update(msg)
	case tabAchievements:
		m.achievementsView, cmd = m.achievementsView.Update(msg)
	case tabInsights:
		m.insightsView, cmd = m.insightsView.Update(msg)
	case tabProviders:
		m.providersView, cmd = m.providersView.Update(msg)
	}
	// Provider results and spinner ticks arrive while another tab may be
	// active.
	switch msg.(type) {
	case providersview.LoadedMsg, providersview.RunDoneMsg:
		if m.activeTab != tabProviders {
			var pcmd tea.Cmd
			m.providersView, pcmd = m.providersView.Update(msg)
			return tea.Batch(cmd, pcmd)
		}
	}
	return cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabOverview:
		return m.overviewView.View()
	case tabSessions:
		return m.sessionsView.View()
	case tabAchievements:
		return m.achievementsView.View()
	case tabInsights:
		return m.insightsView.View()
	case tabProviders:
		return m.providersView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "fivepillars  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  r:refresh  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(left+strings.Repeat(" ", gap)+right)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "log":
		if len(parts) < 4 {
			m.status = "usage: log <pillar> <minutes> <quality> [type]"
			return m, nil
		}
		minutes, err1 := strconv.Atoi(parts[2])
		quality, err2 := strconv.Atoi(parts[3])
		if err1 != nil || err2 != nil {
			m.status = "minutes and quality must be numbers"
			return m, nil
		}
		kind := ""
		if len(parts) > 4 {
			kind = parts[4]
		}
		return m, m.addSessionCmd(parts[1], kind, minutes, quality)

	case "scores":
		if len(parts) < 2 {
			m.status = "usage: scores <pillar=value,...>"
			return m, nil
		}
		return m, m.actionCmd("scores updated", func(ctx context.Context) error {
			_, err := m.tracker.SetScores(ctx, parts[1:])
			return err
		})

	case "insight:read":
		if len(parts) < 2 {
			m.status = "usage: insight:read <id>"
			return m, nil
		}
		return m, m.insightsView.MarkRead(parts[1])

	case "provider:run":
		if len(parts) < 2 {
			m.status = "usage: provider:run <name>"
			return m, nil
		}
		m.activeTab = tabProviders
		return m, m.providersView.Run(parts[1])

	case "streak":
		return m, func() tea.Msg {
			out, err := m.tracker.Streak(context.Background())
			return actionDoneMsg{status: fmt.Sprintf("streak %d (longest %d)", out.Current, out.Longest), err: err}
		}

	case "sync":
		return m, func() tea.Msg {
			at, err := m.tracker.Sync(context.Background())
			return actionDoneMsg{status: "synced at " + at.Format("15:04:05"), err: err}
		}

	case "refresh":
		return m, m.refreshCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabSessions:
		return m.sessionsView.Filtering()
	case tabAchievements:
		return m.achievementsView.Filtering()
	case tabInsights:
		return m.insightsView.Filtering()
	case tabProviders:
		return m.providersView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.overviewView, _ = m.overviewView.Update(sz)
	m.sessionsView, _ = m.sessionsView.Update(sz)
	m.achievementsView, _ = m.achievementsView.Update(sz)
	m.insightsView, _ = m.insightsView.Update(sz)
	m.providersView, _ = m.providersView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var data snapshot
		var err error
		if data.overview, err = m.tracker.Status(ctx); err != nil {
			return refreshedMsg{err: err}
		}
		if data.sessions, err = m.tracker.ListSessions(ctx, "", sessionLimit); err != nil {
			return refreshedMsg{err: err}
		}
		if data.achievements, err = m.tracker.ListAchievements(ctx); err != nil {
			return refreshedMsg{err: err}
		}
		if data.insights, err = m.tracker.ListInsights(ctx, false); err != nil {
			return refreshedMsg{err: err}
		}
		return refreshedMsg{data: data}
	}
}

func (m Model) addSessionCmd(pillar, kind string, minutes, quality int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.tracker.AddSession(context.Background(), pillar, kind, minutes, quality, "", "")
		if err != nil {
			return actionDoneMsg{status: "log", err: err}
		}
		if !out.Recorded {
			return actionDoneMsg{status: "log", err: fmt.Errorf("unknown pillar %q", pillar)}
		}
		status := fmt.Sprintf("%s +%d → %d", pillar, out.Session.ScoreDelta, out.PillarScore)
		for _, a := range out.Unlocked {
			status += "  ★ " + a.Title
		}
		return actionDoneMsg{status: status}
	}
}

func (m Model) actionCmd(status string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{status: status, err: fn(context.Background())}
	}
}

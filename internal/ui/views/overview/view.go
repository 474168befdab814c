package overview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	trackerdto "fivepillars/internal/modules/tracker/dto"
	"fivepillars/internal/ui/components"
	"fivepillars/internal/ui/theme"
)

// Model renders the overview snapshot. It holds no port; the parent pushes
// fresh data after every refresh.
type Model struct {
	data   trackerdto.Overview
	loaded bool
	meter  components.Meter
	width  int
	height int
}

func New() Model {
	return Model{meter: components.NewMeter(30)}
}

func (m *Model) SetData(data trackerdto.Overview) {
	m.data = data
	m.loaded = true
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.meter.SetWidth(size.Width/2 - 20)
	}
	return m, nil
}

func (m Model) View() string {
	if !m.loaded {
		return theme.Muted.Render("loading…")
	}
	d := m.data

	var pillars strings.Builder
	pillars.WriteString(theme.Title.Render("Pillars") + "\n\n")
	for _, p := range d.Pillars {
		label := theme.Pillar(p.Pillar).Render(fmt.Sprintf("%-7s", p.Pillar))
		pillars.WriteString(fmt.Sprintf("%s %s %s  %s\n", label, m.meter.Render(p.Pillar, p.Score), theme.Trend(p.Trend), theme.Muted.Render(fmt.Sprintf("%d sessions", p.Sessions))))
	}
	pillars.WriteString("\n" + theme.Hot.Render(fmt.Sprintf("Overall %.1f", d.OverallScore)))

	var goals strings.Builder
	goals.WriteString(theme.Title.Render("Today") + "\n\n")
	goals.WriteString(fmt.Sprintf("sessions %d/%d  %s\n", d.TodaySessions, d.DailySessionGoal, m.meter.RenderPercent(d.DailySessionsPercent)))
	goals.WriteString(fmt.Sprintf("minutes  %d/%d  %s\n", d.TodayMinutes, d.DailyMinuteGoal, m.meter.RenderPercent(d.DailyMinutesPercent)))
	goals.WriteString("\n" + theme.Title.Render("This week") + "\n\n")
	goals.WriteString(fmt.Sprintf("sessions %d/%d  %s\n", d.WeekSessions, d.WeeklyGoal, m.meter.RenderPercent(d.WeeklyProgress)))
	goals.WriteString("\n" + theme.Title.Render("Streak") + "\n\n")
	goals.WriteString(fmt.Sprintf("%s current  %s longest\n", theme.Hot.Render(fmt.Sprint(d.CurrentStreak)), theme.Muted.Render(fmt.Sprint(d.LongestStreak))))
	goals.WriteString(fmt.Sprintf("\nlevel %d  •  %d unread insights  •  %d new achievements", d.Profile.Level, d.UnreadInsights, d.NewAchievements))

	half := m.width/2 - 2
	if half < 30 {
		return lipgloss.JoinVertical(lipgloss.Left, theme.Pane.Render(pillars.String()), theme.Pane.Render(goals.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		theme.PaneActive.Width(half).Render(pillars.String()),
		theme.Pane.Width(half).Render(goals.String()),
	)
}

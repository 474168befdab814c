package sessions

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	trackerdto "fivepillars/internal/modules/tracker/dto"
	"fivepillars/internal/ui/components"
)

type sessionItem struct{ s trackerdto.SessionView }

func (i sessionItem) Title() string {
	return fmt.Sprintf("%s · %s", i.s.Pillar, i.s.Type)
}

func (i sessionItem) Description() string {
	desc := fmt.Sprintf("%s  %dm  q%d  +%d", i.s.Timestamp.Format("Mon 02 Jan 15:04"), i.s.DurationMinutes, i.s.QualityScore, i.s.ScoreDelta)
	if i.s.Mood != "" {
		desc += "  " + i.s.Mood
	}
	return desc
}

func (i sessionItem) FilterValue() string { return i.s.Pillar + " " + i.s.Type + " " + i.s.Notes }

type Model struct {
	list list.Model
}

func New() Model {
	return Model{list: components.NewList("Sessions")}
}

// SetSessions expects newest first.
func (m *Model) SetSessions(sessions []trackerdto.SessionView) tea.Cmd {
	items := make([]list.Item, len(sessions))
	for i, s := range sessions {
		items[i] = sessionItem{s: s}
	}
	return m.list.SetItems(items)
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.list.SetSize(size.Width, size.Height)
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

package achievements

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	trackerdto "fivepillars/internal/modules/tracker/dto"
	"fivepillars/internal/ui/components"
	"fivepillars/internal/ui/theme"
)

type achievementItem struct{ a trackerdto.AchievementView }

func (i achievementItem) Title() string {
	title := theme.Rarity(i.a.Rarity).Render(i.a.Title)
	if i.a.IsNew {
		title += " " + theme.Hot.Render("new")
	}
	return title
}

func (i achievementItem) Description() string {
	return fmt.Sprintf("[%s] %s  %s", i.a.Rarity, i.a.Description, i.a.UnlockedAt.Format("02 Jan 2006"))
}

func (i achievementItem) FilterValue() string { return i.a.Title + " " + i.a.Pillar }

type Model struct {
	list list.Model
}

func New() Model {
	return Model{list: components.NewList("Achievements")}
}

func (m *Model) SetAchievements(items []trackerdto.AchievementView) tea.Cmd {
	out := make([]list.Item, len(items))
	for i, a := range items {
		out[i] = achievementItem{a: a}
	}
	return m.list.SetItems(out)
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

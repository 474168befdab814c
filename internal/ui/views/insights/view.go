package insights

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	trackerdto "fivepillars/internal/modules/tracker/dto"
	"fivepillars/internal/ui/components"
	"fivepillars/internal/ui/theme"
)

// Port is the minimal interface this view needs from the tracker.
type Port interface {
	MarkInsightRead(ctx context.Context, id string) (bool, error)
}

// MarkedMsg reports the outcome of marking an insight read.
type MarkedMsg struct {
	ID    string
	Found bool
	Err   error
}

type insightItem struct{ in trackerdto.InsightView }

func (i insightItem) Title() string {
	marker := theme.Hot.Render("●")
	if i.in.Read {
		marker = theme.Muted.Render("○")
	}
	return marker + " " + theme.Pillar(i.in.Pillar).Render(i.in.Title)
}

func (i insightItem) Description() string {
	return fmt.Sprintf("[%s %.0f%%] %s", i.in.Priority, i.in.Confidence*100, i.in.Description)
}

func (i insightItem) FilterValue() string { return i.in.Title + " " + i.in.Pillar }

type Model struct {
	port Port
	list list.Model
}

func New(port Port) Model {
	return Model{port: port, list: components.NewList("Insights")}
}

func (m *Model) SetInsights(items []trackerdto.InsightView) tea.Cmd {
	out := make([]list.Item, len(items))
	for i, in := range items {
		out[i] = insightItem{in: in}
	}
	return m.list.SetItems(out)
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// MarkRead is also reachable from the command palette.
func (m Model) MarkRead(id string) tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return MarkedMsg{ID: id, Err: fmt.Errorf("tracker not configured")}
		}
		found, err := m.port.MarkInsightRead(context.Background(), id)
		return MarkedMsg{ID: id, Found: found, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "enter" && !m.Filtering() {
			if item, ok := m.list.SelectedItem().(insightItem); ok && !item.in.Read {
				return m, m.MarkRead(item.in.ID)
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

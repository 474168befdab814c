package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	insightdto "fivepillars/internal/modules/insight/dto"
	"fivepillars/internal/ui/components"
	"fivepillars/internal/ui/theme"
)

// Port is the minimal interface this view needs from the insight module.
type Port interface {
	List(ctx context.Context) ([]insightdto.ProviderInfo, error)
	Run(ctx context.Context, name string) (insightdto.RunOutput, error)
}

// LoadedMsg is sent when the manifest list finishes loading.
type LoadedMsg struct {
	Providers []insightdto.ProviderInfo
	Err       error
}

// RunDoneMsg is sent when a provider run finishes. The parent refreshes the
// tracker views on success.
type RunDoneMsg struct {
	Out insightdto.RunOutput
	Err error
}

type providerItem struct{ p insightdto.ProviderInfo }

func (i providerItem) Title() string { return i.p.Name }
func (i providerItem) Description() string {
	state := "disabled"
	if i.p.Enabled {
		state = "enabled"
	}
	return fmt.Sprintf("v%s  %s", i.p.Version, state)
}
func (i providerItem) FilterValue() string { return i.p.Name }

type Model struct {
	port    Port
	list    list.Model
	output  viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port Port) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	vp.SetContent(theme.Muted.Render("enter: run the selected provider"))
	return Model{port: port, list: components.NewList("Providers"), output: vp, spinner: sp}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Run starts a provider by name; used by the command palette.
func (m *Model) Run(name string) tea.Cmd {
	m.loading = true
	return tea.Batch(m.runCmd(name), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width*4/10, m.height)
		m.output.Width = m.width - m.width*4/10 - 2
		m.output.Height = m.height - 2
		return m, nil

	case LoadedMsg:
		if msg.Err != nil {
			m.output.SetContent(theme.Bad.Render("load providers: " + msg.Err.Error()))
			return m, nil
		}
		items := make([]list.Item, len(msg.Providers))
		for i, p := range msg.Providers {
			items[i] = providerItem{p: p}
		}
		return m, m.list.SetItems(items)

	case RunDoneMsg:
		m.loading = false
		if msg.Err != nil {
			m.output.SetContent(theme.Bad.Render("Error: " + msg.Err.Error()))
		} else {
			m.output.SetContent(renderRun(msg.Out))
		}
		m.output.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "enter" && !m.Filtering() && !m.loading {
			if item, ok := m.list.SelectedItem().(providerItem); ok {
				return m, m.Run(item.p.Name)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	m.output, cmd = m.output.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	right := m.output.View()
	if m.loading {
		right = lipgloss.Place(m.output.Width, m.output.Height, lipgloss.Center, lipgloss.Center, m.spinner.View()+" Running…")
	}
	listPane := lipgloss.NewStyle().Width(m.width * 4 / 10).Render(m.list.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, right)
}

func renderRun(out insightdto.RunOutput) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(out.Provider) + "\n\n")
	sb.WriteString(fmt.Sprintf("received %d  stored %d  rejected %d\n", out.Received, out.Stored, out.Rejected))
	for _, id := range out.IDs {
		sb.WriteString(theme.Muted.Render("  "+id) + "\n")
	}
	return sb.String()
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		providers, err := m.port.List(context.Background())
		return LoadedMsg{Providers: providers, Err: err}
	}
}

func (m Model) runCmd(name string) tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return RunDoneMsg{Err: fmt.Errorf("insight providers not configured")}
		}
		out, err := m.port.Run(context.Background(), name)
		return RunDoneMsg{Out: out, Err: err}
	}
}

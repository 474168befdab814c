package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")
	Yellow   = lipgloss.Color("#f9e2af")
	Mauve    = lipgloss.Color("#cba6f7")
	Teal     = lipgloss.Color("#94e2d5")

	App = lipgloss.NewStyle().
		Background(Base).
		Foreground(Text).
		Padding(1, 2)

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(0, 1)

	PaneActive = Pane.BorderForeground(Lavender)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Good  = lipgloss.NewStyle().Foreground(Green)
	Bad   = lipgloss.NewStyle().Foreground(Red)
)

var pillarColors = map[string]lipgloss.Color{
	"body":   Red,
	"mind":   Sapphire,
	"heart":  Peach,
	"spirit": Mauve,
	"diet":   Green,
}

// PillarColor falls back to Lavender for "overall" and unknown values.
func PillarColor(pillar string) lipgloss.Color {
	if c, ok := pillarColors[pillar]; ok {
		return c
	}
	return Lavender
}

func Pillar(pillar string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(PillarColor(pillar)).Bold(true)
}

func Rarity(rarity string) lipgloss.Style {
	switch rarity {
	case "legendary":
		return lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	case "epic":
		return lipgloss.NewStyle().Foreground(Mauve).Bold(true)
	case "rare":
		return lipgloss.NewStyle().Foreground(Sapphire)
	default:
		return Muted
	}
}

func Trend(trend string) string {
	switch trend {
	case "improving":
		return Good.Render("▲")
	case "declining":
		return Bad.Render("▼")
	default:
		return Muted.Render("•")
	}
}

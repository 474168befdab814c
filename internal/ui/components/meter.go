package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"

	"fivepillars/internal/ui/theme"
)

// Meter renders 0..100 values as a solid bar tinted by pillar.
type Meter struct {
	width int
}

func NewMeter(width int) Meter {
	return Meter{width: width}
}

func (m *Meter) SetWidth(w int) {
	if w < 10 {
		w = 10
	}
	m.width = w
}

func (m Meter) Render(pillar string, value int) string {
	bar := progress.New(
		progress.WithSolidFill(string(theme.PillarColor(pillar))),
		progress.WithoutPercentage(),
		progress.WithWidth(m.width),
	)
	return bar.ViewAs(clampPercent(float64(value))/100) + fmt.Sprintf(" %3d", value)
}

// RenderPercent renders a goal completion ratio, capped at a full bar.
func (m Meter) RenderPercent(percent float64) string {
	bar := progress.New(
		progress.WithSolidFill(string(theme.Green)),
		progress.WithoutPercentage(),
		progress.WithWidth(m.width),
	)
	return bar.ViewAs(clampPercent(percent)/100) + fmt.Sprintf(" %3.0f%%", percent)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/polyglot/internal/ui/theme"
)

// ProgressBar is a one-line bar. Width covers the label and percentage too.
type ProgressBar struct {
	Label       string
	Percent     float64 // 0..1, clamped when drawn
	ShowPercent bool
	Width       int
	Fill        color.Color // nil uses the theme colour
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, ShowPercent: showPercent, Width: width}
}

func (p ProgressBar) View() string {
	var prefix, suffix string
	if p.Label != "" {
		prefix = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	pct := min(max(p.Percent, 0), 1)
	if p.ShowPercent {
		suffix = lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %d%%", int(pct*100+0.5)))
	}

	// the suffix is reserved at its widest ("  100%") so bars line up
	cells := max(p.Width-lipgloss.Width(prefix)-boolInt(p.ShowPercent)*6, 4)
	filled := int(float64(cells) * pct)

	fill := theme.ProgressFilled
	if p.Fill != nil {
		fill = fill.Background(p.Fill)
	}
	return prefix +
		fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", cells-filled)) +
		suffix
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

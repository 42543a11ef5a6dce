package detector

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/polyglot/internal/ui/components"
	"github.com/abhisek/polyglot/internal/ui/theme"
	"github.com/abhisek/polyglot/internal/vision"
)

func (d *DetectorScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, d.renderInput(cw))

	switch {
	case d.analyzing:
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Foreground(theme.TextDim).Render(d.spinner.View()+" Analyzing image..."))
	case d.errMsg != "":
		sections = append(sections, components.AlertCard(
			lipgloss.NewStyle().Foreground(theme.Error).Render(d.errMsg), cw))
	case d.result != nil:
		sections = append(sections, renderResult(*d.result, cw))
	}

	if h := d.history(); h != nil {
		if entries := h.Entries(); len(entries) > 0 {
			sections = append(sections, renderHistory(entries, cw))
		}
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (d *DetectorScreen) renderInput(cw int) string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Render("Image URL")
	return components.ArcadeCard(label+"\n"+d.input.View(), cw)
}

// renderResult shows the verdict, description and confidence.
func renderResult(r vision.Result, cw int) string {
	verdict := theme.Incorrect
	if r.IsTeeth {
		verdict = theme.Correct
	}

	bar := components.NewProgressBar("Confidence", r.Confidence, true, cw-8)
	if !r.IsTeeth {
		bar.Fill = theme.Error
	}

	var b strings.Builder
	b.WriteString(verdict.Render(r.Verdict()))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 8).Render(r.Description))
	b.WriteString("\n\n")
	b.WriteString(bar.View())
	return components.ArcadeCard(b.String(), cw)
}

// renderHistory lists recent analyses, newest first.
func renderHistory(entries []vision.Result, cw int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var lines []string
	lines = append(lines, dim.Render("Recent"))
	for i, r := range entries {
		mark := lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		if r.IsTeeth {
			mark = lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		}
		url := truncate(r.ImageURL, cw-14)
		lines = append(lines, fmt.Sprintf("%d %s %s %s", i+1, mark, url,
			dim.Render(fmt.Sprintf("%d%%", r.ConfidencePercent()))))
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Left).Render(strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	if n < 4 || len([]rune(s)) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

package summary

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/polyglot/internal/router"
	"github.com/abhisek/polyglot/internal/screen"
	"github.com/abhisek/polyglot/internal/session"
	"github.com/abhisek/polyglot/internal/ui/components"
	"github.com/abhisek/polyglot/internal/ui/layout"
	"github.com/abhisek/polyglot/internal/ui/theme"
)

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	summary session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, router.Home
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	cw := components.ContentWidth(width)

	var b strings.Builder

	title := "Session complete!"
	if sum.Attempts == 0 {
		title = "No rounds played"
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(title))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s · %s", sum.Language, formatDuration(sum))))
	b.WriteString("\n\n")

	label := lipgloss.NewStyle().Foreground(theme.TextDim).Width(14).Align(lipgloss.Left)
	value := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(8).Align(lipgloss.Right)
	rows := []struct {
		name string
		v    string
	}{
		{"Attempts", fmt.Sprint(sum.Attempts)},
		{"Correct", fmt.Sprint(sum.Correct)},
		{"Incorrect", fmt.Sprint(sum.Incorrect())},
		{"Accuracy", fmt.Sprintf("%.0f%%", sum.Accuracy)},
		{"Best streak", fmt.Sprint(sum.BestStreak)},
	}
	for _, r := range rows {
		b.WriteString(label.Render(r.name) + value.Render(r.v) + "\n")
	}

	if sum.Attempts > 0 {
		bar := components.NewProgressBar("", sum.Accuracy/100, true, cw-20)
		bar.Fill = accuracyColor(sum.Accuracy)
		b.WriteString("\n" + bar.View())
	}

	return components.CabinetFrame(components.ArcadeCard(b.String(), cw), width, height)
}

func formatDuration(sum session.Summary) string {
	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// accuracyColor returns the bar colour for an accuracy percentage.
func accuracyColor(pct float64) color.Color {
	switch {
	case pct >= 80:
		return theme.Success
	case pct >= 50:
		return theme.ArcadeYellow
	default:
		return theme.Error
	}
}

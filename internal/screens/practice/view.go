package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/polyglot/internal/round"
	sess "github.com/abhisek/polyglot/internal/session"
	"github.com/abhisek/polyglot/internal/ui/components"
	"github.com/abhisek/polyglot/internal/ui/theme"
)

func (p *PracticeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, p.renderStatsBar(cw))
	if p.needsCredential {
		sections = append(sections, renderCredentialPanel(cw))
	}
	sections = append(sections, p.renderRoundCard(cw))
	if fb := p.svc.Game.Feedback(); fb != nil {
		sections = append(sections, renderFeedback(fb, p.milestone, cw))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

// renderStatsBar shows the running stats in a double-bordered box.
func (p *PracticeScreen) renderStatsBar(cw int) string {
	stats := p.svc.Game.Stats()

	attempts := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	correct := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	streak := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	line := fmt.Sprintf("%s  %s  %s  %s",
		attempts.Render(fmt.Sprintf("%d TRIES", stats.Attempts)),
		correct.Render(fmt.Sprintf("✓ %d", stats.Correct)),
		dim.Render(stats.AccuracyString()),
		streak.Render(fmt.Sprintf("★ %d", stats.Streak)),
	)
	goal := dim.Render(fmt.Sprintf("next milestone: %d in a row", round.NextStreakMilestone(stats.Streak)))

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line + "\n" + goal)
}

// renderRoundCard shows the prompt and the answer input.
func (p *PracticeScreen) renderRoundCard(cw int) string {
	lang := p.svc.Language()
	settings := p.svc.Game.Settings()

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("♪ %s", lang.Label())))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d–%d · %gx · %s", settings.Min, settings.Max, settings.Rate(), settings.Backend)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.statusLine()))
	b.WriteString("\n\n")

	if p.phase != sess.PhaseIdle {
		b.WriteString("Answer: " + p.input.View())
	}

	return components.ArcadeCard(b.String(), cw)
}

// renderFeedback shows the last message for the round.
func renderFeedback(fb *round.Feedback, milestone bool, cw int) string {
	var style lipgloss.Style
	switch fb.Kind {
	case round.FeedbackSuccess:
		style = theme.Correct
	case round.FeedbackError:
		style = theme.Incorrect
	default:
		style = theme.Notice
	}

	text := style.Render(fb.Message)
	if milestone {
		text += "\n" + lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).
			Render("★ Streak milestone! ★")
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(text)
}

// renderCredentialPanel asks the user to configure an API key.
func renderCredentialPanel(cw int) string {
	title := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("⚠ API key required")
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 8).Render(
		"Remote voices need an API key. Set POLYGLOT_GEMINI_API_KEY or " +
			"POLYGLOT_OPENAI_API_KEY, or switch the backend to local in Settings.")
	return components.AlertCard(title+"\n\n"+body, cw)
}

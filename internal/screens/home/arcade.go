package home

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/polyglot/internal/round"
	"github.com/abhisek/polyglot/internal/ui/components"
	"github.com/abhisek/polyglot/internal/ui/theme"
)

const (
	logo = `▛▀▖ ▞▀▖ ▌   ▌ ▌ ▞▀▖ ▌   ▞▀▖ ▀▛▘
▙▄▘ ▌ ▌ ▌   ▝▞  ▌▄▖ ▌   ▌ ▌  ▌
▌   ▌ ▌ ▌    ▌  ▌ ▌ ▌   ▌ ▌  ▌
▘   ▝▀  ▀▀▘  ▘  ▝▀  ▀▀▘ ▝▀   ▘`
	logoCompact = "P · O · L · Y · G · L · O · T"
	tagline     = "N U M B E R S"

	buttonWidth = 22
)

func centered(cw int, s string) string {
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(s)
}

func renderTitle(cw int, compact bool) string {
	title := logo
	if compact {
		title = logoCompact
	}
	return centered(cw,
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(title)+"\n"+
			lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render(tagline))
}

// renderStatsBar shows the running totals of the shared game. The compact
// form drops the words and keeps the symbols.
func renderStatsBar(stats round.Stats, cw int, compact bool) string {
	tries := fmt.Sprintf("# %d TRIES", stats.Attempts)
	acc := fmt.Sprintf("✓ %.0f%% ACCURACY", stats.Accuracy())
	streak := fmt.Sprintf("★ BEST %d", stats.BestStreak)
	if stats.BestStreak == 0 {
		streak = "★ NO STREAK"
	}
	sep := "  "
	if compact {
		tries = fmt.Sprintf("#%d", stats.Attempts)
		acc = fmt.Sprintf("✓%.0f%%", stats.Accuracy())
		streak = fmt.Sprintf("★%d", stats.BestStreak)
		sep = " "
	}

	streakStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	if stats.BestStreak == 0 {
		streakStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
	}
	line := strings.Join([]string{
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(tries),
		lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(acc),
		streakStyle.Render(streak),
	}, sep)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw-2).
		Padding(0, 1).
		Align(lipgloss.Center).
		Render(line)
}

// renderMenu draws the menu as bordered buttons, or as bare lines when the
// terminal is too short for borders.
func renderMenu(m components.Menu, cw int, compact bool) string {
	base := lipgloss.NewStyle().Foreground(theme.Text)
	selected := lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.ArcadeYellow).Bold(true)
	indent, marker := "", "▸ "
	if compact {
		indent, marker = "   ", " ▸ "
	} else {
		base = button(base, theme.Border)
		selected = button(selected, theme.ArcadeYellow)
	}
	dim := base.Foreground(theme.TextDim)

	rows := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			rows = append(rows, dim.Render(indent+item.Label))
		case i == m.Selected:
			rows = append(rows, selected.Render(marker+item.Label))
		default:
			rows = append(rows, base.Render(indent+item.Label))
		}
	}
	return centered(cw, strings.Join(rows, "\n"))
}

func button(s lipgloss.Style, edge color.Color) lipgloss.Style {
	return s.Width(buttonWidth).
		Align(lipgloss.Center).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(edge)
}

// renderBackendWarning explains why the selected backend cannot play.
func renderBackendWarning(backend round.Backend, cw int) string {
	text := "⚠ No local speech engine found. Install espeak-ng or pick a remote backend"
	if backend.IsRemote() {
		text = fmt.Sprintf("⚠ Set an API key for %s voices, or pick the local backend in Settings", backend)
	}
	return lipgloss.NewStyle().Foreground(theme.Accent).Width(cw).Align(lipgloss.Center).Render(text)
}

func renderUpdateNote(latest string, cw int) string {
	return lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw).Align(lipgloss.Center).
		Render(fmt.Sprintf("New version %s available (polyglot update)", latest))
}

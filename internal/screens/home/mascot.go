package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/polyglot/internal/ui/theme"
)

// MascotVariant picks the parrot's mood.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota
	MascotCelebrating               // streak milestone reached
	MascotAlert                     // speech backend not ready
)

type mascot struct {
	art   string
	color func() lipgloss.Style
}

var mascots = map[MascotVariant]mascot{
	MascotIdle: {
		art: `  ▄▀▀▀▄
 █ ◉  ▶
 █    █
  ▀▄▄▀
   ╨╨`,
		color: func() lipgloss.Style { return lipgloss.NewStyle().Foreground(theme.Primary) },
	},
	MascotCelebrating: {
		art: `  ▄▀▀▀▄  ♪
 █ ★  ▶ ♫
 █    █
  ▀▄▄▀
   ╨╨`,
		color: func() lipgloss.Style { return lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true) },
	},
	MascotAlert: {
		art: `  ▄▀▀▀▄  ?
 █ ◉  ▷
 █    █
  ▀▄▄▀
   ╨╨`,
		color: func() lipgloss.Style { return lipgloss.NewStyle().Foreground(theme.Accent) },
	},
}

// RenderMascot draws the parrot for v, falling back to idle.
func RenderMascot(v MascotVariant) string {
	m, ok := mascots[v]
	if !ok {
		m = mascots[MascotIdle]
	}
	return m.color().Render(m.art)
}

package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/polyglot/internal/ui/theme"
)

const bannerArt = `
 ██████╗  ██████╗ ██╗     ██╗   ██╗ ██████╗ ██╗      ██████╗ ████████╗
 ██╔══██╗██╔═══██╗██║     ╚██╗ ██╔╝██╔════╝ ██║     ██╔═══██╗╚══██╔══╝
 ██████╔╝██║   ██║██║      ╚████╔╝ ██║  ███╗██║     ██║   ██║   ██║
 ██╔═══╝ ██║   ██║██║       ╚██╔╝  ██║   ██║██║     ██║   ██║   ██║
 ██║     ╚██████╔╝███████╗   ██║   ╚██████╔╝███████╗╚██████╔╝   ██║
 ╚═╝      ╚═════╝ ╚══════╝   ╚═╝    ╚═════╝ ╚══════╝ ╚═════╝    ╚═╝`

const bannerCompact = "P O L Y G L O T"

// bannerMinWidth is the narrowest terminal that fits bannerArt.
const bannerMinWidth = 72

// RenderBanner returns the POLYGLOT banner styled in the primary color.
// Uses a compact fallback for terminals narrower than bannerMinWidth.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/polyglot/internal/ui/theme"
)

const maxContentWidth = 60

// ContentWidth is the width every card on a screen is drawn at, so stacked
// cards line up inside the cabinet.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), maxContentWidth)
}

// CabinetFrame draws the double border around a whole screen and centres
// content inside it.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func card(content string, cw int, edge color.Color) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(edge).
		Width(cw-2).
		Padding(1, 2).
		Align(lipgloss.Center).
		Render(content)
}

// ArcadeCard is the standard content card.
func ArcadeCard(content string, cw int) string { return card(content, cw, theme.Border) }

// AlertCard draws a card with an accent border for something the user
// has to act on.
func AlertCard(content string, cw int) string { return card(content, cw, theme.Accent) }

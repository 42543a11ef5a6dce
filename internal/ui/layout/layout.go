// Package layout draws the frame around every screen: a header bar with
// the practice status, the screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/polyglot/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

type KeyHint struct {
	Key         string
	Description string
}

// HeaderInfo is the status shown on the right of the header.
type HeaderInfo struct {
	Language string
	Backend  string
	Streak   int
}

func IsCompactWidth(width int) bool { return width < CompactWidthThreshold }

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
		MinWidth, MinHeight, width, height)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(msg)
}

// bar is the bordered strip used for both header and footer.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderHeader puts the app name on the left, title in the middle and the
// practice status on the right. The title is shortened when space runs out.
func RenderHeader(title string, info HeaderInfo, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  Polyglot")

	var status []string
	if info.Language != "" {
		status = append(status, lipgloss.NewStyle().Foreground(theme.Secondary).Render("♪ "+info.Language))
	}
	if info.Backend != "" {
		status = append(status, lipgloss.NewStyle().Foreground(theme.TextDim).Render(info.Backend))
	}
	status = append(status, lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("★ %d", info.Streak)))
	right := strings.Join(status, "   ")

	inner := max(width-4, 0)
	room := inner - lipgloss.Width(left) - lipgloss.Width(right) - 2
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(ellipsize(title, max(room, 0)))

	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	// centre the title but never push the status off the line
	leftGap := max(min((inner-cw)/2-lw, inner-lw-cw-rw-1), 1)
	rightGap := max(inner-lw-leftGap-cw-rw, 1)

	return bar(left+strings.Repeat(" ", leftGap)+center+strings.Repeat(" ", rightGap)+right, width)
}

// RenderFooter lists as many hints as fit on one line, keeping the last
// one (usually Quit) whenever anything is dropped.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key)+" "+
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description))
	}

	const sep = "   "
	inner := max(width-4, 0)
	line := "  " + strings.Join(parts, sep)
	for len(parts) > 1 && lipgloss.Width(line) > inner {
		parts = append(parts[:len(parts)-2], parts[len(parts)-1])
		line = "  " + strings.Join(parts, sep)
	}
	return bar(line, width)
}

// RenderFrame stacks header, body and footer, padding the body so the
// frame fills height exactly.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return header + "\n" +
		lipgloss.NewStyle().Width(width).Height(body).MaxHeight(body).Render(content) + "\n" +
		footer
}

// Centered renders s centred across width with style.
func Centered(s string, width int, style lipgloss.Style) string {
	return style.Width(width).Align(lipgloss.Center).Render(s)
}

func ellipsize(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

package components

import (
	"fmt"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/polyglot/internal/ui/theme"
)

// Selector cycles through a fixed list of options with left/right.
type Selector struct {
	Label    string
	Options  []string
	Selected int
	Focused  bool
}

// NewSelector creates a selector positioned on current, or on the first
// option when current is not listed.
func NewSelector(label string, options []string, current string) Selector {
	s := Selector{Label: label, Options: options}
	for i, o := range options {
		if o == current {
			s.Selected = i
			break
		}
	}
	return s
}

// Value returns the selected option, or "" when there are none.
func (s Selector) Value() string {
	if s.Selected < 0 || s.Selected >= len(s.Options) {
		return ""
	}
	return s.Options[s.Selected]
}

// Update handles left/right cycling while focused.
func (s Selector) Update(msg tea.Msg) (Selector, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || !s.Focused || len(s.Options) == 0 {
		return s, nil
	}

	n := len(s.Options)
	switch {
	case key.Matches(kmsg, KeyLeft):
		s.Selected = (s.Selected - 1 + n) % n
	case key.Matches(kmsg, KeyRight):
		s.Selected = (s.Selected + 1) % n
	}
	return s, nil
}

// View renders "Label  ◂ value ▸".
func (s Selector) View(labelWidth int) string {
	label := lipgloss.NewStyle().
		Width(labelWidth).
		Foreground(theme.TextDim).
		Render(s.Label)

	value := fmt.Sprintf("◂ %s ▸", s.Value())
	style := lipgloss.NewStyle().Foreground(theme.Text)
	if s.Focused {
		style = style.Foreground(theme.Primary).Bold(true)
	}
	return label + style.Render(value)
}

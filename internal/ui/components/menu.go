package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/polyglot/internal/ui/theme"
)

type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list whose cursor never rests on a disabled item.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = m.next(-1, 1)
	return m
}

// next walks from i in direction dir and returns the first enabled index,
// or i when there is none.
func (m Menu) next(i, dir int) int {
	for j := i + dir; j >= 0 && j < len(m.Items); j += dir {
		if !m.Items[j].Disabled {
			return j
		}
	}
	return max(i, 0)
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(kmsg, KeyUp):
		m.Selected = m.next(m.Selected, -1)
	case key.Matches(kmsg, KeyDown):
		m.Selected = m.next(m.Selected, 1)
	case key.Matches(kmsg, KeySelect):
		if m.Selected < len(m.Items) {
			if item := m.Items[m.Selected]; !item.Disabled && item.Action != nil {
				return m, item.Action()
			}
		}
	}
	return m, nil
}

func (m Menu) Labels() []string {
	labels := make([]string, 0, len(m.Items))
	for _, item := range m.Items {
		labels = append(labels, item.Label)
	}
	return labels
}

// DisabledSet indexes the disabled items.
func (m Menu) DisabledSet() map[int]bool {
	set := map[int]bool{}
	for i, item := range m.Items {
		if item.Disabled {
			set[i] = true
		}
	}
	return set
}

// View renders the plain list form; the home screen draws its own
// cabinet around Labels instead.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		prefix, style := "    ", lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case item.Disabled:
			style = style.Foreground(theme.TextDim)
		case i == m.Selected:
			prefix, style = "  ▸ ", style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(prefix+item.Label) + "\n")
	}
	return b.String()
}

package components

import (
	"charm.land/bubbles/v2/key"

	"github.com/abhisek/polyglot/internal/ui/layout"
)

// Shared bindings for list-style widgets.
var (
	KeyUp     = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "Up"))
	KeyDown   = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "Down"))
	KeyLeft   = key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "Previous"))
	KeyRight  = key.NewBinding(key.WithKeys("right", "l", "space"), key.WithHelp("→", "Next"))
	KeySelect = key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Select"))
)

// Hint turns a binding's help text into a footer hint.
func Hint(b key.Binding) layout.KeyHint {
	h := b.Help()
	return layout.KeyHint{Key: h.Key, Description: h.Desc}
}

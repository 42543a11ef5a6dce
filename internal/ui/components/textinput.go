package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/polyglot/internal/ui/theme"
)

type verdict int

const (
	verdictNone verdict = iota
	verdictRight
	verdictWrong
)

// TextInput is a focused bubbles text field. In numeric mode it accepts
// digits and one leading minus sign, from keys and pastes alike.
type TextInput struct {
	Model       textinput.Model
	NumericOnly bool

	// verdict marks the last submitted value until the user edits it
	verdict verdict
}

func NewTextInput(placeholder string, numericOnly bool, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = max(limit, 0)
	ti.Focus()
	return TextInput{Model: ti, NumericOnly: numericOnly}
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if t.NumericOnly && len(msg.Text) == 1 && !t.accepts(msg.Text[0], t.Model.Position(), t.Model.Value()) {
			return t, nil
		}
		t.verdict = verdictNone
	case tea.PasteMsg:
		if t.NumericOnly {
			msg.Content = t.numericPaste(msg.Content)
			if msg.Content == "" {
				return t, nil
			}
		}
		t.verdict = verdictNone
		var cmd tea.Cmd
		t.Model, cmd = t.Model.Update(msg)
		return t, cmd
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) accepts(c byte, pos int, value string) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	return c == '-' && pos == 0 && !strings.Contains(value, "-")
}

// numericPaste drops every character the field would refuse if typed at
// the cursor one by one.
func (t TextInput) numericPaste(s string) string {
	var b strings.Builder
	pos, value := t.Model.Position(), t.Model.Value()
	for i := 0; i < len(s); i++ {
		if t.accepts(s[i], pos, value) {
			b.WriteByte(s[i])
			value = value[:pos] + s[i:i+1] + value[pos:]
			pos++
		}
	}
	return b.String()
}

func (t TextInput) View() string {
	switch t.verdict {
	case verdictRight:
		return t.Model.View() + " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	case verdictWrong:
		return t.Model.View() + " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
	return t.Model.View()
}

func (t TextInput) Value() string { return t.Model.Value() }

func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
	t.verdict = verdictNone
}

func (t *TextInput) Reset() {
	t.Model.Reset()
	t.verdict = verdictNone
}

func (t *TextInput) Focus() tea.Cmd { return t.Model.Focus() }
func (t *TextInput) Blur()          { t.Model.Blur() }

// NumericValue parses the trimmed value as a base-10 integer.
func (t TextInput) NumericValue() (int, error) {
	return strconv.Atoi(strings.TrimSpace(t.Model.Value()))
}

// Submit shows a tick or a cross after the value until it is edited.
func (t *TextInput) Submit(correct bool) {
	t.verdict = verdictWrong
	if correct {
		t.verdict = verdictRight
	}
}

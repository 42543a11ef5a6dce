package app

import (
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/polyglot/internal/router"
	"github.com/abhisek/polyglot/internal/screen"
	"github.com/abhisek/polyglot/internal/screens/home"
	"github.com/abhisek/polyglot/internal/screens/practice"
	"github.com/abhisek/polyglot/internal/screens/welcome"
	"github.com/abhisek/polyglot/internal/services"
	"github.com/abhisek/polyglot/internal/ui/components"
	"github.com/abhisek/polyglot/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Services *services.Services

	// StartPractice opens a practice session on launch instead of the
	// home menu. Esc from practice still lands on home.
	StartPractice bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	svc    *services.Services
	router *router.Router
	start  tea.Cmd
	width  int
	height int
}

// newAppModel creates a new AppModel. It opens on the welcome splash, or
// directly on a practice session above home when StartPractice is set.
func newAppModel(opts Options) AppModel {
	m := AppModel{svc: opts.Services}
	if opts.StartPractice {
		m.router = router.New(home.New(opts.Services))
		m.start = m.router.Push(practice.New(opts.Services))
		return m
	}
	splash := welcome.New(func() screen.Screen { return home.New(opts.Services) })
	m.router = router.New(splash)
	m.start = splash.Init()
	return m
}

func (m AppModel) Init() tea.Cmd {
	return m.start
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.svc.Speech != nil {
				m.svc.Speech.Stop()
			}
			return m, tea.Quit
		case "esc":
			if eh, ok := m.router.Active().(screen.EscapeHandler); ok && eh.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Back
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// headerInfo summarises the practice state for the header bar.
func (m AppModel) headerInfo() layout.HeaderInfo {
	if m.svc == nil || m.svc.Game == nil {
		return layout.HeaderInfo{}
	}
	return layout.HeaderInfo{
		Language: m.svc.Language().Name,
		Backend:  string(m.svc.Game.Settings().Backend),
		Streak:   m.svc.Game.Stats().Streak,
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	header := layout.RenderHeader(strings.Join(m.router.Trail(), " › "), m.headerInfo(), m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// footerHints asks the active screen for its hints, falling back to
// generic ones. Ctrl+C is always listed.
func (m AppModel) footerHints() []layout.KeyHint {
	var hints []layout.KeyHint
	switch hp, ok := m.router.Active().(screen.KeyHintProvider); {
	case ok:
		hints = hp.KeyHints()
	case m.router.Depth() > 1:
		hints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	default:
		hints = []layout.KeyHint{{Key: "↑↓", Description: "Navigate"}, components.Hint(components.KeySelect)}
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Services == nil || opts.Services.Game == nil {
		return fmt.Errorf("app: services not configured")
	}
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

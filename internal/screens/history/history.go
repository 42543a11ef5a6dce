package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/polyglot/internal/round"
	"github.com/abhisek/polyglot/internal/screen"
	"github.com/abhisek/polyglot/internal/store"
	"github.com/abhisek/polyglot/internal/ui/components"
	"github.com/abhisek/polyglot/internal/ui/layout"
	"github.com/abhisek/polyglot/internal/ui/theme"
)

const (
	sessionLimit = 100
	loadTimeout  = 5 * time.Second
)

type tab int

const (
	tabSessions tab = iota
	tabLanguages
)

func (t tab) String() string {
	if t == tabLanguages {
		return "Languages"
	}
	return "Sessions"
}

type loadedMsg struct {
	sessions []store.SessionSummaryRecord
	stats    []store.LanguageStats
	err      error
}

// Screen lists finished sessions and lifetime totals per language.
type Screen struct {
	events    store.EventRepo
	languages []round.Language

	sessions []store.SessionSummaryRecord
	stats    []store.LanguageStats

	tab      tab
	cursor   int
	expanded map[string]bool

	// scroll state, recomputed on every render
	offset     int
	cursorLine int
	cursorSpan int

	loaded bool
	err    error
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New returns a history screen reading from events. languages is used to
// turn stored language codes back into display names.
func New(events store.EventRepo, languages []round.Language) *Screen {
	return &Screen{
		events:    events,
		languages: languages,
		expanded:  make(map[string]bool),
	}
}

func (s *Screen) Title() string { return "History" }

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{components.Hint(keyTab), {Key: "↑↓", Description: "Scroll"}}
	if s.tab == tabSessions {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Details"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *Screen) Init() tea.Cmd {
	events := s.events
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		sessions, err := events.QuerySessionSummaries(ctx, store.QueryOpts{Limit: sessionLimit})
		if err != nil {
			return loadedMsg{err: err}
		}
		// Sessions are still worth showing when the aggregate fails.
		stats, err := events.LanguageStats(ctx)
		if err != nil {
			return loadedMsg{sessions: sessions}
		}
		return loadedMsg{sessions: sessions, stats: stats}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		s.err = msg.err
		s.sessions = msg.sessions
		s.stats = msg.stats
	case tea.KeyPressMsg:
		s.handleKey(msg)
	}
	return s, nil
}

var (
	keyTab   = key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("Tab", "Switch view"))
	keyFirst = key.NewBinding(key.WithKeys("home", "g"))
	keyLast  = key.NewBinding(key.WithKeys("end", "G"))
)

func (s *Screen) handleKey(msg tea.KeyPressMsg) {
	switch {
	case key.Matches(msg, keyTab):
		s.tab = (s.tab + 1) % 2
		s.cursor, s.offset = 0, 0
	case key.Matches(msg, components.KeyUp):
		s.cursor = max(s.cursor-1, 0)
	case key.Matches(msg, components.KeyDown):
		s.cursor = max(min(s.cursor+1, s.rows()-1), 0)
	case key.Matches(msg, keyFirst):
		s.cursor = 0
	case key.Matches(msg, keyLast):
		s.cursor = max(s.rows()-1, 0)
	case key.Matches(msg, components.KeySelect):
		if s.tab == tabSessions && s.cursor < len(s.sessions) {
			id := s.sessions[s.cursor].SessionID
			s.expanded[id] = !s.expanded[id]
		}
	}
}

func (s *Screen) rows() int {
	if s.tab == tabLanguages {
		return len(s.stats)
	}
	return len(s.sessions)
}

// languageName maps a stored code to its catalogue label, falling back
// to the code itself for languages no longer configured.
func (s *Screen) languageName(code string) string {
	if code == "" {
		return "?"
	}
	if l, ok := round.FindLanguage(s.languages, code); ok {
		return l.Name
	}
	return code
}

func (s *Screen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.err != nil:
		return center.Foreground(theme.Error).Render("\n\nCould not load history: " + s.err.Error())
	case !s.loaded:
		return center.Foreground(theme.TextDim).Render("\n\nLoading history...")
	case len(s.sessions) == 0 && len(s.stats) == 0:
		return center.Foreground(theme.TextDim).Italic(true).Render("\n\nNo sessions yet. Start practising!")
	}

	var lines []string
	if s.tab == tabLanguages {
		lines = s.languageLines()
	} else {
		lines = s.sessionLines()
	}

	header := s.renderTabs()
	body := s.window(lines, max(height-4, 3))
	content := lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(body, "\n"))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

func (s *Screen) renderTabs() string {
	active := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Underline(true)
	idle := lipgloss.NewStyle().Foreground(theme.TextDim)
	var parts []string
	for _, t := range []tab{tabSessions, tabLanguages} {
		st := idle
		if t == s.tab {
			st = active
		}
		parts = append(parts, st.Render(t.String()))
	}
	return strings.Join(parts, "   ")
}

func (s *Screen) sessionLines() []string {
	var rows [][]string
	for i, sess := range s.sessions {
		line := fmt.Sprintf("%s  %-10s  %5s  %3d tries  %3.0f%%",
			sess.Timestamp.Local().Format("Jan 02 15:04"),
			truncate(s.languageName(sess.Language), 10),
			formatDuration(sess.DurationSecs),
			sess.Attempts,
			percent(sess.Correct, sess.Attempts))

		r := []string{s.cursorStyle(i).Render(s.marker(i) + line)}
		if s.expanded[sess.SessionID] {
			detail := fmt.Sprintf("    %d correct · %d wrong · best streak %d",
				sess.Correct, sess.Attempts-sess.Correct, sess.BestStreak)
			r = append(r, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(detail))
		}
		rows = append(rows, r)
	}
	return s.flatten(rows)
}

func (s *Screen) languageLines() []string {
	if len(s.stats) == 0 {
		return []string{lipgloss.NewStyle().Foreground(theme.TextDim).Render("No rounds recorded.")}
	}
	var rows [][]string
	for i, l := range s.stats {
		line := fmt.Sprintf("%-12s %5d rounds  %5d correct  %3.0f%%  %4d skipped",
			truncate(s.languageName(l.Language), 12),
			l.Rounds, l.Correct, percent(l.Correct, l.Attempts), l.Skipped)
		rows = append(rows, []string{s.cursorStyle(i).Render(s.marker(i) + line)})
	}
	return s.flatten(rows)
}

func (s *Screen) marker(i int) string {
	if i == s.cursor {
		return "> "
	}
	return "  "
}

func (s *Screen) cursorStyle(i int) lipgloss.Style {
	if i == s.cursor {
		return lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(theme.Text)
}

// flatten joins the rows, one per cursor position, and records which line
// the cursor row starts on so window can keep it visible.
func (s *Screen) flatten(rows [][]string) []string {
	var out []string
	for i, r := range rows {
		if i == s.cursor {
			s.cursorLine = len(out)
			s.cursorSpan = len(r)
		}
		out = append(out, r...)
	}
	return out
}

// window returns at most height lines, scrolled so the cursor row is in
// view. Scrolled lists give up one line at each end to a "more" marker.
func (s *Screen) window(lines []string, height int) []string {
	if len(lines) <= height {
		s.offset = 0
		return lines
	}
	h := max(height-2, 1)
	if s.cursorLine < s.offset {
		s.offset = s.cursorLine
	}
	if end := s.cursorLine + min(s.cursorSpan, h); end > s.offset+h {
		s.offset = end - h
	}
	s.offset = min(max(s.offset, 0), len(lines)-h)

	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	up, down := "", ""
	if s.offset > 0 {
		up = dim.Render("  ↑ more")
	}
	if s.offset+h < len(lines) {
		down = dim.Render("  ↓ more")
	}
	out := make([]string, 0, h+2)
	out = append(out, up)
	out = append(out, lines[s.offset:s.offset+h]...)
	return append(out, down)
}

func formatDuration(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func percent(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}

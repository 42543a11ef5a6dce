package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/polyglot/internal/round"
	"github.com/abhisek/polyglot/internal/router"
	"github.com/abhisek/polyglot/internal/screen"
	"github.com/abhisek/polyglot/internal/screens/detector"
	"github.com/abhisek/polyglot/internal/screens/history"
	"github.com/abhisek/polyglot/internal/screens/practice"
	"github.com/abhisek/polyglot/internal/screens/settings"
	"github.com/abhisek/polyglot/internal/services"
	"github.com/abhisek/polyglot/internal/ui/components"
	"github.com/abhisek/polyglot/internal/ui/layout"
)

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	svc           *services.Services
	menu          components.Menu
	stats         round.Stats
	backendReady  bool
	mascotVariant MascotVariant
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(svc *services.Services) *HomeScreen {
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd { return router.Open(build()) }
	}

	items := []components.MenuItem{
		{Label: "PRACTICE", Action: push(func() screen.Screen { return practice.New(svc) })},
		{Label: "TEETH DETECTOR", Action: push(func() screen.Screen { return detector.New(svc) })},
		{Label: "SETTINGS", Action: push(func() screen.Screen { return settings.New(svc) })},
		{Label: "HISTORY", Action: push(func() screen.Screen { return history.New(svc.Events, svc.Languages) }), Disabled: svc.Events == nil},
		{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	}

	h := &HomeScreen{
		svc:  svc,
		menu: components.NewMenu(items),
	}
	h.refresh()
	return h
}

// refresh recomputes the stats bar and mascot from the shared game.
func (h *HomeScreen) refresh() {
	h.stats = h.svc.Game.Stats()
	h.backendReady = h.svc.BackendReady()

	switch {
	case !h.backendReady:
		h.mascotVariant = MascotAlert
	case h.stats.Streak > 0 && h.stats.Streak >= round.NextStreakMilestone(0):
		h.mascotVariant = MascotCelebrating
	default:
		h.mascotVariant = MascotIdle
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Resume refreshes stats when the user comes back from another screen.
func (h *HomeScreen) Resume() tea.Cmd {
	h.refresh()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// headerAndFooter is the height the app frame takes around this screen.
const headerAndFooter = 8

func (h *HomeScreen) View(width, height int) string {
	compact := height+headerAndFooter < layout.CompactHeightThreshold || layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	sections := []string{renderTitle(cw, compact)}
	if !compact {
		sections = append(sections, centered(cw, RenderMascot(h.mascotVariant)))
	}
	sections = append(sections, renderStatsBar(h.stats, cw, compact))
	if !h.backendReady {
		sections = append(sections, renderBackendWarning(h.svc.Game.Settings().Backend, cw))
	}
	sections = append(sections, renderMenu(h.menu, cw, compact))
	if h.svc.LatestVersion != "" {
		sections = append(sections, renderUpdateNote(h.svc.LatestVersion, cw))
	}
	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

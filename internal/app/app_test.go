package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/polyglot/internal/round"
	"github.com/abhisek/polyglot/internal/router"
	"github.com/abhisek/polyglot/internal/screens/home"
	"github.com/abhisek/polyglot/internal/screens/practice"
	"github.com/abhisek/polyglot/internal/screens/welcome"
	"github.com/abhisek/polyglot/internal/services"
	"github.com/abhisek/polyglot/internal/speech"
)

type fakeSpeaker struct{}

func (fakeSpeaker) Speak(context.Context, speech.Request) error     { return nil }
func (fakeSpeaker) Voices(context.Context) ([]speech.Voice, error) { return nil, nil }
func (fakeSpeaker) Engine() string                                 { return "fake" }

func testServices() *services.Services {
	s := round.DefaultSettings()
	s.Backend = round.BackendLocal
	s.Language = "fr-FR"
	return &services.Services{
		Game:      round.NewGame(round.NewGenerator(nil), s),
		Languages: round.DefaultLanguages,
		Speech:    speech.NewAdapter(speech.Options{Speaker: fakeSpeaker{}}),
	}
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("expected AppModel, got %T", next)
	}
	return am, cmd
}

func TestNewAppModel_StartsOnWelcome(t *testing.T) {
	m := newAppModel(Options{Services: testServices()})

	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Fatalf("expected welcome screen, got %T", m.router.Active())
	}
	if m.Init() == nil {
		t.Error("welcome should start its animation")
	}

	// any key hands over to home
	_, cmd := update(t, m, tea.KeyPressMsg{Code: 'x', Text: "x"})
	if cmd == nil {
		t.Fatal("expected replace command")
	}
	m, _ = update(t, m, cmd())
	if _, ok := m.router.Active().(*home.HomeScreen); !ok {
		t.Fatalf("expected home screen, got %T", m.router.Active())
	}
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}
}

func TestNewAppModel_StartPractice(t *testing.T) {
	m := newAppModel(Options{Services: testServices(), StartPractice: true})

	if _, ok := m.router.Active().(*practice.PracticeScreen); !ok {
		t.Fatalf("expected practice screen, got %T", m.router.Active())
	}
	if m.router.Depth() != 2 {
		t.Errorf("depth = %d, want 2", m.router.Depth())
	}
}

func TestEscForwardedToPractice(t *testing.T) {
	m := newAppModel(Options{Services: testServices(), StartPractice: true})

	_, cmd := update(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("practice should end the session and show its summary")
	}
}

func TestEscOnRootIsNoop(t *testing.T) {
	svc := testServices()
	m := AppModel{svc: svc, router: router.New(home.New(svc))}

	_, cmd := update(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("esc on the root screen should do nothing")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newAppModel(Options{Services: testServices()})

	_, cmd := update(t, m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestViewShowsHeaderInfo(t *testing.T) {
	svc := testServices()
	m := AppModel{svc: svc, router: router.New(home.New(svc))}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	content := m.render()
	for _, want := range []string{"Polyglot", "French", "local"} {
		if !strings.Contains(content, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRunRequiresServices(t *testing.T) {
	if err := Run(Options{}); err == nil {
		t.Error("expected error without services")
	}
}

func TestHeaderShowsScreenTrail(t *testing.T) {
	m := newAppModel(Options{Services: testServices(), StartPractice: true})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if content := m.render(); !strings.Contains(content, "Home › Practice") {
		t.Errorf("header should show the navigation trail, got:\n%s", content)
	}
}

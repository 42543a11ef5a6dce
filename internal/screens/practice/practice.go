// Package practice is the listening game screen: a number is spoken, the
// user types it and the round is scored.
package practice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/polyglot/internal/round"
	"github.com/abhisek/polyglot/internal/router"
	"github.com/abhisek/polyglot/internal/screen"
	"github.com/abhisek/polyglot/internal/screens/summary"
	"github.com/abhisek/polyglot/internal/services"
	sess "github.com/abhisek/polyglot/internal/session"
	"github.com/abhisek/polyglot/internal/speech"
	"github.com/abhisek/polyglot/internal/ui/components"
	"github.com/abhisek/polyglot/internal/ui/layout"
	"github.com/abhisek/polyglot/internal/ui/theme"
)

// playTimeout bounds a single synthesis plus playback.
const playTimeout = 90 * time.Second

// PracticeScreen implements screen.Screen for a practice session.
type PracticeScreen struct {
	svc     *services.Services
	tracker *sess.Tracker
	phase   sess.Phase
	input   components.TextInput
	spinner spinner.Model

	// gen numbers playbacks so results of superseded ones are dropped.
	gen uint64

	needsCredential bool
	milestone       bool
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.EscapeHandler = (*PracticeScreen)(nil)

// New creates a PracticeScreen. The session starts when the screen is
// initialised.
func New(svc *services.Services) *PracticeScreen {
	return &PracticeScreen{
		svc:   svc,
		input: newAnswerInput(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.ArcadeCyan)),
		),
	}
}

func newAnswerInput() components.TextInput {
	return components.NewTextInput("Type the number you hear...", true, 24)
}

func (p *PracticeScreen) Init() tea.Cmd {
	settings := p.svc.Game.Settings()
	p.tracker = sess.Start(context.Background(), p.svc.Events, settings, p.svc.Log())
	if !p.svc.BackendReady() && settings.Backend.IsRemote() {
		p.needsCredential = true
	}
	return p.input.Focus()
}

func (p *PracticeScreen) Title() string {
	return "Practice"
}

// HandlesEscape makes the app forward Esc here so the session can be
// closed before leaving.
func (p *PracticeScreen) HandlesEscape() bool { return true }

func (p *PracticeScreen) KeyHints() []layout.KeyHint {
	switch p.phase {
	case sess.PhaseIdle:
		return []layout.KeyHint{
			{Key: "Space", Description: "Listen"},
			{Key: "Esc", Description: "End session"},
		}
	case sess.PhaseScored:
		return []layout.KeyHint{
			{Key: "N", Description: "Next number"},
			{Key: "R", Description: "Replay"},
			{Key: "Esc", Description: "End session"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Space/R", Description: "Replay"},
		{Key: "S", Description: "Skip"},
		{Key: "Esc", Description: "End session"},
	}
}

// Phase returns where the screen is within the current round.
func (p *PracticeScreen) Phase() sess.Phase {
	return p.phase
}

func (p *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case playbackDoneMsg:
		return p.handlePlaybackDone(msg)

	case spinner.TickMsg:
		if p.phase != sess.PhaseSpeaking {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return p, p.end()
	case "space", "r":
		return p, p.listen()
	case "enter":
		return p, p.submit()
	case "s":
		return p, p.skip()
	case "n":
		if p.phase == sess.PhaseScored || p.phase == sess.PhaseIdle {
			return p, p.next()
		}
		return p, nil
	}

	if p.phase == sess.PhaseScored {
		return p, nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// listen replays the pending round, or starts a new one when there is
// nothing to replay.
func (p *PracticeScreen) listen() tea.Cmd {
	game := p.svc.Game
	if game.Round() == nil {
		return p.next()
	}
	if game.Pending() {
		p.phase = sess.PhaseSpeaking
	}
	return p.playCmd(*game.Round(), true)
}

// next draws a new round and plays it.
func (p *PracticeScreen) next() tea.Cmd {
	r, err := p.svc.Game.Start()
	if err != nil {
		p.svc.Log().Debug("round not started", zap.Error(err))
		p.phase = sess.PhaseIdle
		return nil
	}
	p.milestone = false
	p.input.Reset()
	p.phase = sess.PhaseSpeaking
	p.tracker.RoundStarted()
	return tea.Batch(p.playCmd(r, false), p.input.Focus())
}

func (p *PracticeScreen) skip() tea.Cmd {
	settings := p.svc.Game.Settings()
	skipped, err := p.svc.Game.Skip()
	if err != nil {
		return nil
	}
	p.tracker.RecordSkip(context.Background(), settings, skipped)
	return p.next()
}

func (p *PracticeScreen) submit() tea.Cmd {
	game := p.svc.Game
	if game.Round() == nil {
		game.SetFeedback(round.FeedbackInfo, "Press space to hear a number first.")
		return nil
	}

	outcome, err := game.Submit(p.input.Value())
	switch {
	case errors.Is(err, round.ErrEmptyAnswer), errors.Is(err, round.ErrAlreadyScored):
		return nil
	case err != nil:
		game.SetFeedback(round.FeedbackError, err.Error())
		return nil
	}

	p.input.Submit(outcome.Correct)
	p.phase = sess.PhaseScored
	p.milestone = outcome.Correct && round.IsStreakMilestone(outcome.Stats.Streak)
	p.tracker.RecordOutcome(context.Background(), game.Settings(), outcome)
	return nil
}

// end closes the session and shows its summary.
func (p *PracticeScreen) end() tea.Cmd {
	p.gen++
	if p.svc.Speech != nil {
		p.svc.Speech.Stop()
	}
	if p.tracker == nil {
		return router.Back
	}
	p.tracker.SetLanguage(p.svc.Game.Settings().Language)
	s := p.tracker.End(context.Background())
	return router.Swap(summary.New(s))
}

// playCmd speaks r in the background. Replay reuses the adapter's last
// utterance and falls back to a fresh play when the adapter has none.
func (p *PracticeScreen) playCmd(r round.Round, replay bool) tea.Cmd {
	p.gen++
	gen := p.gen

	adapter := p.svc.Speech
	settings := p.svc.Game.Settings()
	req := speech.RequestFor(r.Target, p.svc.Language(), settings)

	play := func() tea.Msg {
		if adapter == nil {
			return playbackDoneMsg{gen: gen, err: speech.ErrNoEngine}
		}
		ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
		defer cancel()

		var err error
		if replay {
			err = adapter.Replay(ctx)
		}
		if !replay || errors.Is(err, speech.ErrNoRound) {
			err = adapter.Play(ctx, settings.Backend, req)
		}
		return playbackDoneMsg{gen: gen, err: err}
	}

	if p.phase == sess.PhaseSpeaking {
		return tea.Batch(play, p.spinner.Tick)
	}
	return play
}

func (p *PracticeScreen) handlePlaybackDone(msg playbackDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.gen != p.gen {
		return p, nil
	}
	if p.phase == sess.PhaseSpeaking {
		p.phase = sess.PhaseAnswering
	}

	err := msg.err
	game := p.svc.Game
	switch {
	case err == nil, errors.Is(err, speech.ErrInterrupted):
		p.needsCredential = false
		return p, nil

	case errors.Is(err, speech.ErrNeedsCredential):
		p.needsCredential = true
		game.SetFeedback(round.FeedbackError, speech.Message(err))

	case errors.Is(err, speech.ErrEngine):
		game.SetFeedback(round.FeedbackError, speech.Message(err))

	default:
		if r := game.Round(); r != nil && !r.Scored {
			p.tracker.RecordAbandon(context.Background(), game.Settings(), *r)
		}
		game.Abandon(speech.Message(err))
		p.phase = sess.PhaseIdle
	}

	p.svc.Log().Warn("playback failed",
		zap.String("kind", speech.ErrorKind(err)),
		zap.Error(err))
	return p, nil
}

// statusLine describes the current phase for the view.
func (p *PracticeScreen) statusLine() string {
	switch p.phase {
	case sess.PhaseSpeaking:
		return p.spinner.View() + " Speaking..."
	case sess.PhaseAnswering:
		return "What number did you hear?"
	case sess.PhaseScored:
		return "Press N for the next number."
	}
	return fmt.Sprintf("Press space to hear a number between %d and %d.",
		p.svc.Game.Settings().Min, p.svc.Game.Settings().Max)
}

package round

import (
	"errors"
	"fmt"
)

// FeedbackKind classifies the message shown after an action.
type FeedbackKind string

const (
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
	FeedbackInfo    FeedbackKind = "info"
)

// Feedback is the last message produced for the current round.
type Feedback struct {
	Kind    FeedbackKind
	Message string
}

// Outcome describes a scored submission.
type Outcome struct {
	Correct bool
	Target  int
	Answer  string
	Stats   Stats
}

// Game owns the settings, the active round, the running stats and the
// latest feedback. It is not safe for concurrent use; callers drive it
// from a single event loop.
type Game struct {
	gen      *Generator
	settings Settings
	current  *Round
	stats    Stats
	feedback *Feedback
}

// NewGame creates a Game with no active round.
func NewGame(gen *Generator, settings Settings) *Game {
	if gen == nil {
		gen = NewGenerator(nil)
	}
	return &Game{gen: gen, settings: settings}
}

// Settings returns the current settings.
func (g *Game) Settings() Settings { return g.settings }

// Stats returns the running stats.
func (g *Game) Stats() Stats { return g.stats }

// Round returns the active round, or nil when none is in progress.
func (g *Game) Round() *Round {
	if g.current == nil {
		return nil
	}
	r := *g.current
	return &r
}

// Feedback returns the latest feedback, or nil.
func (g *Game) Feedback() *Feedback {
	return g.feedback
}

// Pending reports whether a round is active and not yet scored.
func (g *Game) Pending() bool {
	return g.current != nil && !g.current.Scored
}

// Start draws a new round, replacing any active one. An invalid range
// leaves the game untouched apart from an error feedback.
func (g *Game) Start() (Round, error) {
	r, err := g.gen.NewRound(g.settings)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			g.feedback = &Feedback{Kind: FeedbackError, Message: "Invalid range: Min > Max."}
		} else {
			g.feedback = &Feedback{Kind: FeedbackError, Message: err.Error()}
		}
		return Round{}, err
	}
	g.current = r
	g.feedback = nil
	return *r, nil
}

// Submit scores input against the active round. A round is scored at most
// once; empty input is rejected without touching the stats.
func (g *Game) Submit(input string) (Outcome, error) {
	if g.current == nil {
		return Outcome{}, ErrNoRound
	}
	if g.current.Scored {
		g.feedback = &Feedback{Kind: FeedbackInfo, Message: "This round has already been scored."}
		return Outcome{}, ErrAlreadyScored
	}

	correct, err := Evaluate(input, g.current.Target)
	if err != nil {
		return Outcome{}, err
	}

	g.current.Scored = true
	g.stats = g.stats.Record(correct)

	target := g.current.Target
	if correct {
		g.feedback = &Feedback{Kind: FeedbackSuccess, Message: fmt.Sprintf("Correct! It was %d.", target)}
	} else {
		g.feedback = &Feedback{Kind: FeedbackError, Message: fmt.Sprintf("Not quite! The number was %d.", target)}
	}

	return Outcome{
		Correct: correct,
		Target:  target,
		Answer:  input,
		Stats:   g.stats,
	}, nil
}

// Skip drops an unscored round without touching the stats and reveals its
// target. The caller starts the next round.
func (g *Game) Skip() (Round, error) {
	if !g.Pending() {
		return Round{}, ErrNoRound
	}
	skipped := *g.current
	g.current = nil
	g.feedback = &Feedback{Kind: FeedbackInfo, Message: fmt.Sprintf("Skipped. The number was %d.", skipped.Target)}
	return skipped, nil
}

// Abandon drops the active round after a failure that makes it unplayable.
func (g *Game) Abandon(message string) {
	g.current = nil
	if message != "" {
		g.feedback = &Feedback{Kind: FeedbackError, Message: message}
	}
}

// SetFeedback overrides the feedback, e.g. to surface a playback error
// without dropping the round.
func (g *Game) SetFeedback(kind FeedbackKind, message string) {
	g.feedback = &Feedback{Kind: kind, Message: message}
}

// ApplySettings replaces the settings. Any change resets the active round
// and clears feedback. It reports whether anything changed.
func (g *Game) ApplySettings(s Settings) bool {
	if s == g.settings {
		return false
	}
	g.settings = s
	g.current = nil
	g.feedback = nil
	return true
}

// Package session tracks one practice session: its id, timing and the
// round and session events written to the store.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/polyglot/internal/round"
	"github.com/abhisek/polyglot/internal/store"
)

const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// Tracker records a practice session. Event writes are best effort: a
// failure is logged and never reaches the caller. Not safe for concurrent
// use.
type Tracker struct {
	id     string
	events store.EventRepo
	logger *zap.Logger
	now    func() time.Time

	language   string
	stats      round.Stats // this session only; the game keeps lifetime totals
	started    time.Time
	roundStart time.Time
	ended      *Summary
}

// Start begins a session and writes its start event. A nil repo disables
// recording.
func Start(ctx context.Context, events store.EventRepo, settings round.Settings, logger *zap.Logger) *Tracker {
	return start(ctx, events, settings, logger, time.Now)
}

func start(ctx context.Context, events store.EventRepo, settings round.Settings, logger *zap.Logger, now func() time.Time) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		id:       uuid.New().String(),
		events:   events,
		now:      now,
		language: settings.Language,
		started:  now(),
	}
	t.logger = logger.Named("session").With(zap.String("session_id", t.id))

	t.appendSession(ctx, store.SessionEventData{
		SessionID: t.id,
		Action:    ActionStart,
		Language:  settings.Language,
	})
	t.logger.Info("session started", zap.String("language", settings.Language))
	return t
}

// ID returns the session id.
func (t *Tracker) ID() string { return t.id }

// StartedAt returns when the session began.
func (t *Tracker) StartedAt() time.Time { return t.started }

// Elapsed returns the session duration so far.
func (t *Tracker) Elapsed() time.Duration {
	if t.ended != nil {
		return t.ended.Duration
	}
	return t.now().Sub(t.started)
}

// RoundStarted marks the moment the target was first played. Answer
// latency is measured from here.
func (t *Tracker) RoundStarted() {
	t.roundStart = t.now()
}

// SetLanguage notes a language change so the end event reports the last
// language practised.
func (t *Tracker) SetLanguage(lang string) {
	t.language = lang
}

// RecordOutcome writes a scored round.
func (t *Tracker) RecordOutcome(ctx context.Context, settings round.Settings, o round.Outcome) {
	t.stats = t.stats.Record(o.Correct)
	outcome := store.OutcomeIncorrect
	if o.Correct {
		outcome = store.OutcomeCorrect
	}
	t.appendRound(ctx, settings, o.Target, o.Answer, outcome)
}

// RecordSkip writes a round the user skipped.
func (t *Tracker) RecordSkip(ctx context.Context, settings round.Settings, r round.Round) {
	t.appendRound(ctx, settings, r.Target, "", store.OutcomeSkipped)
}

// RecordAbandon writes a round dropped after a provider failure.
func (t *Tracker) RecordAbandon(ctx context.Context, settings round.Settings, r round.Round) {
	t.appendRound(ctx, settings, r.Target, "", store.OutcomeAbandoned)
}

// Stats returns the totals of the rounds scored in this session.
func (t *Tracker) Stats() round.Stats { return t.stats }

// End writes the end event and returns the summary of the rounds scored
// in this session. Calling End again returns the first summary without
// writing anything.
func (t *Tracker) End(ctx context.Context) Summary {
	if t.ended != nil {
		return *t.ended
	}
	s := BuildSummary(t.id, t.language, t.stats, t.now().Sub(t.started))
	t.ended = &s

	t.appendSession(ctx, store.SessionEventData{
		SessionID:    t.id,
		Action:       ActionEnd,
		Language:     t.language,
		Attempts:     s.Attempts,
		Correct:      s.Correct,
		BestStreak:   s.BestStreak,
		DurationSecs: int(s.Duration.Seconds()),
	})
	t.logger.Info("session ended",
		zap.Int("attempts", s.Attempts),
		zap.Int("correct", s.Correct),
		zap.Duration("duration", s.Duration),
	)
	return s
}

// Ended reports whether End was called.
func (t *Tracker) Ended() bool { return t.ended != nil }

func (t *Tracker) appendRound(ctx context.Context, settings round.Settings, target int, answer, outcome string) {
	var latency int64
	if !t.roundStart.IsZero() {
		latency = t.now().Sub(t.roundStart).Milliseconds()
	}
	t.roundStart = time.Time{}

	if t.events == nil {
		return
	}
	err := t.events.AppendRoundEvent(ctx, store.RoundEventData{
		SessionID: t.id,
		Language:  settings.Language,
		Backend:   string(settings.Backend),
		Min:       settings.Min,
		Max:       settings.Max,
		Target:    target,
		Answer:    answer,
		Outcome:   outcome,
		LatencyMs: latency,
	})
	if err != nil {
		t.logger.Warn("failed to record round event", zap.String("outcome", outcome), zap.Error(err))
	}
}

func (t *Tracker) appendSession(ctx context.Context, data store.SessionEventData) {
	if t.events == nil {
		return
	}
	if err := t.events.AppendSessionEvent(ctx, data); err != nil {
		t.logger.Warn("failed to record session event", zap.String("action", data.Action), zap.Error(err))
	}
}

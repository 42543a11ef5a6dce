package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	Purpose string // LLM events only
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM calls by purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// Round outcomes.
const (
	OutcomeCorrect   = "correct"
	OutcomeIncorrect = "incorrect"
	OutcomeSkipped   = "skipped"
	OutcomeAbandoned = "abandoned"
)

// RoundEventData captures one finished round.
type RoundEventData struct {
	SessionID string
	Language  string
	Backend   string
	Min       int
	Max       int
	Target    int
	Answer    string
	Outcome   string
	LatencyMs int64
}

// SessionEventData captures the start or end of a practice session.
type SessionEventData struct {
	SessionID    string
	Action       string // "start" or "end"
	Language     string
	Attempts     int
	Correct      int
	BestStreak   int
	DurationSecs int
}

// SessionSummaryRecord is a finished session as shown in history listings.
type SessionSummaryRecord struct {
	SessionID    string
	Timestamp    time.Time
	Language     string
	Attempts     int
	Correct      int
	BestStreak   int
	DurationSecs int
}

// PlaybackEventData captures one speech playback attempt.
type PlaybackEventData struct {
	Backend    string
	Model      string
	Language   string
	Voice      string
	Cached     bool
	Success    bool
	ErrorKind  string
	LatencyMs  int64
	AudioBytes int
}

// PlaybackUsage aggregates playback attempts for one backend.
type PlaybackUsage struct {
	Backend      string
	Plays        int
	Cached       int
	Failed       int
	AudioBytes   int64
	AvgLatencyMs int64
}

// LanguageStats aggregates scored rounds per language.
type LanguageStats struct {
	Language string
	Rounds   int
	Attempts int
	Correct  int
	Skipped  int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	AppendRoundEvent(ctx context.Context, data RoundEventData) error
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	AppendPlaybackEvent(ctx context.Context, data PlaybackEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns a single event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// PlaybackUsage aggregates playback events by backend.
	PlaybackUsage(ctx context.Context) ([]PlaybackUsage, error)

	// LanguageStats aggregates every recorded round by language.
	LanguageStats(ctx context.Context) ([]LanguageStats, error)

	// QuerySessionSummaries returns finished sessions, newest first.
	QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error)
}

// KVRepo stores small JSON documents keyed by namespace and name.
type KVRepo interface {
	// Get returns the stored value and whether it exists.
	Get(ctx context.Context, namespace, name string) ([]byte, bool, error)
	Put(ctx context.Context, namespace, name string, value []byte) error
	Delete(ctx context.Context, namespace, name string) error
}

package session

import (
	"time"

	"github.com/abhisek/polyglot/internal/round"
)

// Summary holds the data displayed on the summary screen.
type Summary struct {
	SessionID  string
	Language   string
	Duration   time.Duration
	Attempts   int
	Correct    int
	Accuracy   float64 // percent
	BestStreak int
}

// BuildSummary creates a Summary from the session's running stats.
func BuildSummary(id, language string, stats round.Stats, elapsed time.Duration) Summary {
	return Summary{
		SessionID:  id,
		Language:   language,
		Duration:   elapsed.Truncate(time.Second),
		Attempts:   stats.Attempts,
		Correct:    stats.Correct,
		Accuracy:   stats.Accuracy(),
		BestStreak: stats.BestStreak,
	}
}

// Incorrect returns the number of wrong answers.
func (s Summary) Incorrect() int {
	return s.Attempts - s.Correct
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendRoundEvent(ctx context.Context, data RoundEventData) error {
	return r.appendEvent(ctx, tableRoundEvents,
		[]string{
			"session_id", "language", "backend", "range_min", "range_max",
			"target", "answer", "outcome", "correct", "latency_ms",
		},
		[]any{
			data.SessionID, data.Language, data.Backend, data.Min, data.Max,
			data.Target, data.Answer, data.Outcome, data.Outcome == OutcomeCorrect, data.LatencyMs,
		},
	)
}

func (r *eventRepo) LanguageStats(ctx context.Context) ([]LanguageStats, error) {
	sel := builder().Select(
		"language",
		entsql.As(entsql.Count("*"), "rounds"),
		entsql.As("SUM(CASE WHEN outcome IN ('correct', 'incorrect') THEN 1 ELSE 0 END)", "attempts"),
		entsql.As(entsql.Sum("correct"), "correct"),
		entsql.As("SUM(CASE WHEN outcome = 'skipped' THEN 1 ELSE 0 END)", "skipped"),
	).
		From(entsql.Table(tableRoundEvents)).
		GroupBy("language").
		OrderBy(entsql.Desc("rounds"), "language")

	var stats []LanguageStats
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		var (
			ls                         LanguageStats
			attempts, correct, skipped sql.NullInt64
		)
		if err := rows.Scan(&ls.Language, &ls.Rounds, &attempts, &correct, &skipped); err != nil {
			return err
		}
		ls.Attempts = int(attempts.Int64)
		ls.Correct = int(correct.Int64)
		ls.Skipped = int(skipped.Int64)
		stats = append(stats, ls)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate language stats: %w", err)
	}
	return stats, nil
}

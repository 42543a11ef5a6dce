package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	return r.appendEvent(ctx, tableSessionEvents,
		[]string{"session_id", "action", "language", "attempts", "correct", "best_streak", "duration_secs"},
		[]any{data.SessionID, data.Action, data.Language, data.Attempts, data.Correct, data.BestStreak, data.DurationSecs},
	)
}

func (r *eventRepo) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error) {
	sel := builder().
		Select("session_id", "timestamp", "language", "attempts", "correct", "best_streak", "duration_secs").
		From(entsql.Table(tableSessionEvents)).
		Where(entsql.EQ("action", "end")).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts)

	var out []SessionSummaryRecord
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		var s SessionSummaryRecord
		if err := rows.Scan(&s.SessionID, &s.Timestamp, &s.Language, &s.Attempts, &s.Correct, &s.BestStreak, &s.DurationSecs); err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	return out, nil
}

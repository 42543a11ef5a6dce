package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendPlaybackEvent(ctx context.Context, data PlaybackEventData) error {
	return r.appendEvent(ctx, tablePlaybackEvents,
		[]string{"backend", "model", "language", "voice", "cached", "success", "error_kind", "latency_ms", "audio_bytes"},
		[]any{data.Backend, data.Model, data.Language, data.Voice, data.Cached, data.Success, data.ErrorKind, data.LatencyMs, data.AudioBytes},
	)
}

func (r *eventRepo) PlaybackUsage(ctx context.Context) ([]PlaybackUsage, error) {
	// booleans are stored as 0/1, so SUM counts the true rows
	sel := builder().Select(
		"backend",
		entsql.As(entsql.Count("*"), "plays"),
		entsql.As(entsql.Sum("cached"), "cached_plays"),
		entsql.As(entsql.Sum("success"), "ok_plays"),
		entsql.As(entsql.Sum("audio_bytes"), "bytes"),
		entsql.As(entsql.Avg("latency_ms"), "avg_latency"),
	).
		From(entsql.Table(tablePlaybackEvents)).
		GroupBy("backend").
		OrderBy(entsql.Desc("plays"))

	var usage []PlaybackUsage
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		var (
			u                 PlaybackUsage
			cached, ok, bytes sql.NullInt64
			avg               sql.NullFloat64
		)
		if err := rows.Scan(&u.Backend, &u.Plays, &cached, &ok, &bytes, &avg); err != nil {
			return err
		}
		u.Cached = int(cached.Int64)
		u.Failed = u.Plays - int(ok.Int64)
		u.AudioBytes = bytes.Int64
		u.AvgLatencyMs = int64(avg.Float64)
		usage = append(usage, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate playback usage: %w", err)
	}
	return usage, nil
}

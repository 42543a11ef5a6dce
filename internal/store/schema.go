package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableLLMRequestEvents = "llm_request_events"
	tableRoundEvents      = "round_events"
	tableSessionEvents    = "session_events"
	tablePlaybackEvents   = "playback_events"
	tableKV               = "kv"
)

// eventTable builds an event table. Every event carries the shared id,
// global sequence and UTC timestamp columns ahead of its own columns.
func eventTable(name string, cols []*schema.Column, indexed ...string) *schema.Table {
	all := append([]*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}, cols...)

	t := &schema.Table{
		Name:       name,
		Columns:    all,
		PrimaryKey: []*schema.Column{all[0]},
	}
	for _, c := range append([]string{"sequence", "timestamp"}, indexed...) {
		col, ok := t.Column(c)
		if !ok {
			panic(fmt.Sprintf("store: index on unknown column %s.%s", name, c))
		}
		t.Indexes = append(t.Indexes, &schema.Index{
			Name:    name + "_" + c,
			Columns: []*schema.Column{col},
		})
	}
	return t
}

func longText(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Size: 2147483647, Default: ""}
}

var (
	llmRequestEventsTable = eventTable(tableLLMRequestEvents, []*schema.Column{
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		longText("request_body"),
		longText("response_body"),
	}, "provider", "purpose")

	roundEventsTable = eventTable(tableRoundEvents, []*schema.Column{
		{Name: "session_id", Type: field.TypeString},
		{Name: "language", Type: field.TypeString},
		{Name: "backend", Type: field.TypeString, Default: ""},
		{Name: "range_min", Type: field.TypeInt},
		{Name: "range_max", Type: field.TypeInt},
		{Name: "target", Type: field.TypeInt},
		{Name: "answer", Type: field.TypeString, Default: ""},
		{Name: "outcome", Type: field.TypeString},
		{Name: "correct", Type: field.TypeBool, Default: false},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
	}, "session_id", "language")

	sessionEventsTable = eventTable(tableSessionEvents, []*schema.Column{
		{Name: "session_id", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "language", Type: field.TypeString, Default: ""},
		{Name: "attempts", Type: field.TypeInt, Default: 0},
		{Name: "correct", Type: field.TypeInt, Default: 0},
		{Name: "best_streak", Type: field.TypeInt, Default: 0},
		{Name: "duration_secs", Type: field.TypeInt, Default: 0},
	}, "session_id", "action")

	playbackEventsTable = eventTable(tablePlaybackEvents, []*schema.Column{
		{Name: "backend", Type: field.TypeString},
		{Name: "model", Type: field.TypeString, Default: ""},
		{Name: "language", Type: field.TypeString},
		{Name: "voice", Type: field.TypeString, Default: ""},
		{Name: "cached", Type: field.TypeBool, Default: false},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_kind", Type: field.TypeString, Default: ""},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "audio_bytes", Type: field.TypeInt, Default: 0},
	}, "backend")

	kvColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "namespace", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		longText("value"),
		{Name: "updated_at", Type: field.TypeTime},
	}
	kvTable = &schema.Table{
		Name:       tableKV,
		Columns:    kvColumns,
		PrimaryKey: []*schema.Column{kvColumns[0]},
		Indexes: []*schema.Index{
			{Name: "kv_namespace_name", Unique: true, Columns: []*schema.Column{kvColumns[1], kvColumns[2]}},
		},
	}

	tables = []*schema.Table{
		llmRequestEventsTable,
		roundEventsTable,
		sessionEventsTable,
		playbackEventsTable,
		kvTable,
	}
)

// migrate creates or upgrades all tables.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}

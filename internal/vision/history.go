package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/abhisek/polyglot/internal/store"
)

const (
	// MaxHistory is the number of results kept.
	MaxHistory = 5

	historyNamespace = "teeth_search_history"
	historyKey       = "recent"
)

// History is the list of recent results, newest first. Safe for
// concurrent use.
type History struct {
	kv store.KVRepo

	mu      sync.Mutex
	entries []Result
}

// LoadHistory reads saved results. A nil repo keeps history in memory.
func LoadHistory(ctx context.Context, kv store.KVRepo) (*History, error) {
	h := &History{kv: kv}
	if kv == nil {
		return h, nil
	}
	raw, ok, err := kv.Get(ctx, historyNamespace, historyKey)
	if err != nil {
		return nil, fmt.Errorf("load image history: %w", err)
	}
	if !ok {
		return h, nil
	}
	if err := json.Unmarshal(raw, &h.entries); err != nil {
		return nil, fmt.Errorf("decode image history: %w", err)
	}
	h.entries = trim(h.entries)
	return h, nil
}

// Entries returns a copy of the results, newest first.
func (h *History) Entries() []Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Result(nil), h.entries...)
}

// Add puts r first, drops older results for the same URL and persists.
func (h *History) Add(ctx context.Context, r Result) error {
	h.mu.Lock()
	entries := make([]Result, 0, len(h.entries)+1)
	entries = append(entries, r)
	for _, e := range h.entries {
		if e.ImageURL != r.ImageURL {
			entries = append(entries, e)
		}
	}
	h.entries = trim(entries)
	snapshot := append([]Result(nil), h.entries...)
	h.mu.Unlock()

	return h.save(ctx, snapshot)
}

// Clear removes every result.
func (h *History) Clear(ctx context.Context) error {
	h.mu.Lock()
	h.entries = nil
	h.mu.Unlock()

	if h.kv == nil {
		return nil
	}
	return h.kv.Delete(ctx, historyNamespace, historyKey)
}

func (h *History) save(ctx context.Context, entries []Result) error {
	if h.kv == nil {
		return nil
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode image history: %w", err)
	}
	if err := h.kv.Put(ctx, historyNamespace, historyKey, raw); err != nil {
		return fmt.Errorf("save image history: %w", err)
	}
	return nil
}

func trim(entries []Result) []Result {
	if len(entries) > MaxHistory {
		return entries[:MaxHistory]
	}
	return entries
}

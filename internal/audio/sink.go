package audio

import (
	"context"
	"sync"
)

// Sink plays a clip to an output device. Play blocks until the clip has
// been played or ctx is cancelled, in which case it stops output promptly
// and returns ctx.Err().
type Sink interface {
	Play(ctx context.Context, clip Clip) error
	Close() error
}

// MemorySink records clips instead of playing them. With Hold set, Play
// blocks until its context is cancelled.
type MemorySink struct {
	Hold bool

	mu      sync.Mutex
	played  []Clip
	started chan struct{}
	closed  bool
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{started: make(chan struct{}, 16)}
}

func (m *MemorySink) Play(ctx context.Context, clip Clip) error {
	m.mu.Lock()
	m.played = append(m.played, clip)
	hold := m.Hold
	m.mu.Unlock()

	select {
	case m.started <- struct{}{}:
	default:
	}

	if !hold {
		return ctx.Err()
	}
	<-ctx.Done()
	return ctx.Err()
}

// Started is signalled each time Play begins.
func (m *MemorySink) Started() <-chan struct{} {
	return m.started
}

// Played returns a copy of every clip passed to Play.
func (m *MemorySink) Played() []Clip {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Clip(nil), m.played...)
}

func (m *MemorySink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MemorySink) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

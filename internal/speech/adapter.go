package speech

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/polyglot/internal/audio"
	"github.com/abhisek/polyglot/internal/llm"
	"github.com/abhisek/polyglot/internal/round"
	"github.com/abhisek/polyglot/internal/store"
)

// maxCachedClips bounds the replay cache. It is cleared when full.
const maxCachedClips = 32

// Options wires an Adapter. Every field is optional; missing strategies
// surface as errors when selected.
type Options struct {
	Speaker      Speaker
	Synthesizers []Synthesizer
	Sink         audio.Sink
	Events       store.EventRepo
	Logger       *zap.Logger
	Retry        llm.RetryConfig
}

type cacheKey struct {
	backend round.Backend
	number  int
	lang    string
	voice   string
}

// cachedClip is a decoded remote clip. Clips the backend rendered at a
// given speed only serve that speed; the rest are resampled when played.
type cachedClip struct {
	clip   audio.Clip
	native bool
	speed  float64
}

func (c cachedClip) serves(speed float64) bool {
	return !c.native || c.speed == speed
}

func (c cachedClip) at(speed float64) audio.Clip {
	if c.native {
		return c.clip
	}
	return c.clip.WithSpeed(speed)
}

type utterance struct {
	backend round.Backend
	req     Request
}

// Adapter plays numbers through the selected backend. At most one
// playback is active; starting another cancels it. Safe for concurrent use.
type Adapter struct {
	speaker Speaker
	synths  map[round.Backend]Synthesizer
	sink    audio.Sink
	events  store.EventRepo
	logger  *zap.Logger
	retry   llm.RetryConfig

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	active bool
	last   *utterance
	cache  map[cacheKey]cachedClip
}

// NewAdapter creates an Adapter.
func NewAdapter(opts Options) *Adapter {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	retry := opts.Retry
	if retry.MaxAttempts == 0 {
		retry = llm.DefaultRetryConfig()
	}
	a := &Adapter{
		speaker: opts.Speaker,
		synths:  make(map[round.Backend]Synthesizer),
		sink:    opts.Sink,
		events:  opts.Events,
		logger:  logger.Named("speech"),
		retry:   retry,
		cache:   make(map[cacheKey]cachedClip),
	}
	for _, s := range opts.Synthesizers {
		a.synths[s.Backend()] = s
	}
	return a
}

// Available reports whether backend has a strategy wired.
func (a *Adapter) Available(backend round.Backend) bool {
	if backend == round.BackendLocal {
		return a.speaker != nil
	}
	_, ok := a.synths[backend]
	return ok && a.sink != nil
}

// Speaker returns the local engine, or nil.
func (a *Adapter) Speaker() Speaker {
	return a.speaker
}

// Busy reports whether a playback is in progress.
func (a *Adapter) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// Stop cancels the active playback, if any.
func (a *Adapter) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
}

// Reset stops playback and forgets the last utterance and cached clips.
func (a *Adapter) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
	a.last = nil
	clear(a.cache)
}

// Play speaks req through backend and blocks until playback ends. It
// returns ErrInterrupted if a newer playback, Stop or the caller cancelled
// it. When ctx's deadline passes first the failure belongs to the backend:
// an *EngineError for local speech, a *ProviderError otherwise.
func (a *Adapter) Play(ctx context.Context, backend round.Backend, req Request) error {
	return a.play(ctx, utterance{backend: backend, req: req})
}

// Replay repeats the last utterance. Remote clips come from the cache.
func (a *Adapter) Replay(ctx context.Context) error {
	a.mu.Lock()
	last := a.last
	a.mu.Unlock()
	if last == nil {
		return ErrNoRound
	}
	return a.play(ctx, *last)
}

func (a *Adapter) play(ctx context.Context, u utterance) error {
	pctx, gen := a.begin(ctx, u)
	defer a.end(gen)

	start := time.Now()
	var (
		err    error
		cached bool
		clip   audio.Clip
	)
	if u.backend == round.BackendLocal {
		err = a.speakLocal(pctx, u.req)
	} else {
		var entry cachedClip
		entry, cached, err = a.clipFor(pctx, u)
		if err == nil {
			clip = entry.at(u.req.Speed)
			err = a.playClip(pctx, clip)
		}
	}

	if err != nil && pctx.Err() != nil {
		err = a.cutShort(ctx, u.backend)
	}

	a.record(u, cached, len(clip.Samples)*2, time.Since(start), err)
	return err
}

// begin cancels any active playback and registers a new one.
func (a *Adapter) begin(ctx context.Context, u utterance) (context.Context, uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		a.cancel()
	}
	pctx, cancel := context.WithCancel(ctx)
	a.gen++
	a.cancel = cancel
	a.active = true
	a.last = &u
	return pctx, a.gen
}

func (a *Adapter) end(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gen != gen {
		return
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.cancel = nil
	a.active = false
}

// cutShort names the failure of a playback whose context ended.
func (a *Adapter) cutShort(ctx context.Context, backend round.Backend) error {
	if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrInterrupted
	}
	timeout := fmt.Errorf("no audio before deadline: %w", context.DeadlineExceeded)
	if backend != round.BackendLocal {
		return &ProviderError{Backend: backend, Err: timeout}
	}
	engine := "local"
	if a.speaker != nil {
		engine = a.speaker.Engine()
	}
	return &EngineError{Engine: engine, Err: timeout}
}

func (a *Adapter) speakLocal(ctx context.Context, req Request) error {
	if a.speaker == nil {
		return ErrNoEngine
	}
	return a.speaker.Speak(ctx, req)
}

func keyFor(u utterance) cacheKey {
	return cacheKey{
		backend: u.backend,
		number:  u.req.Number,
		lang:    u.req.Language.Code,
		voice:   remoteVoice(u.backend, u.req),
	}
}

// clipFor returns the cached clip for u or synthesizes and caches one.
func (a *Adapter) clipFor(ctx context.Context, u utterance) (cachedClip, bool, error) {
	key := keyFor(u)

	a.mu.Lock()
	entry, ok := a.cache[key]
	a.mu.Unlock()
	if ok && entry.serves(u.req.Speed) {
		return entry, true, nil
	}

	synth, ok := a.synths[u.backend]
	if !ok {
		return cachedClip{}, false, fmt.Errorf("speech backend %q is not configured", u.backend)
	}

	out, err := synthesizeWithRetry(ctx, synth, u.req, a.retry)
	if err != nil {
		if errors.Is(err, ErrNeedsCredential) {
			return cachedClip{}, false, err
		}
		return cachedClip{}, false, wrapProviderError(u.backend, err)
	}

	clip, err := decodeOutput(u.backend, out)
	if err != nil {
		return cachedClip{}, false, err
	}
	entry = cachedClip{clip: clip, native: out.SpeedApplied, speed: u.req.Speed}

	a.mu.Lock()
	if len(a.cache) >= maxCachedClips {
		clear(a.cache)
	}
	a.cache[key] = entry
	a.mu.Unlock()
	return entry, false, nil
}

// decodeOutput turns a remote Output into a clip at the speed it was
// rendered.
func decodeOutput(backend round.Backend, out Output) (audio.Clip, error) {
	switch out.Kind {
	case OutputAudio:
		clip, err := audio.DecodePCM16LE(out.Audio, out.SampleRate, 1)
		if err != nil {
			return audio.Clip{}, &ProviderError{Backend: backend, Err: fmt.Errorf("decode audio: %w", err)}
		}
		return clip, nil
	case OutputText:
		return audio.Clip{}, ErrNonAudioOutput
	case OutputEmpty:
		return audio.Clip{}, &ProviderError{Backend: backend, Err: errors.New("empty response")}
	default:
		return audio.Clip{}, &ProviderError{Backend: backend, Err: fmt.Errorf("unknown output kind %v", out.Kind)}
	}
}

func (a *Adapter) playClip(ctx context.Context, clip audio.Clip) error {
	if a.sink == nil {
		return errors.New("no audio output available")
	}
	return a.sink.Play(ctx, clip)
}

// record logs the playback and appends a playback event. Failures to
// record never affect the caller.
func (a *Adapter) record(u utterance, cached bool, bytes int, elapsed time.Duration, err error) {
	data := store.PlaybackEventData{
		Backend:    string(u.backend),
		Language:   u.req.Language.Code,
		Voice:      u.req.Voice,
		Cached:     cached,
		Success:    err == nil,
		ErrorKind:  ErrorKind(err),
		LatencyMs:  elapsed.Milliseconds(),
		AudioBytes: bytes,
	}
	if s, ok := a.synths[u.backend]; ok {
		data.Model = s.Model()
		data.Voice = remoteVoice(u.backend, u.req)
	} else if a.speaker != nil && u.backend == round.BackendLocal {
		data.Model = a.speaker.Engine()
	}

	fields := []zap.Field{
		zap.String("backend", data.Backend),
		zap.String("model", data.Model),
		zap.String("language", data.Language),
		zap.Bool("cached", cached),
		zap.Duration("elapsed", elapsed),
	}
	switch {
	case err == nil:
		a.logger.Debug("playback finished", fields...)
	case errors.Is(err, ErrInterrupted):
		a.logger.Debug("playback interrupted", fields...)
	default:
		a.logger.Warn("playback failed", append(fields, zap.Error(err))...)
	}

	if a.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if logErr := a.events.AppendPlaybackEvent(ctx, data); logErr != nil {
		a.logger.Warn("failed to record playback event", zap.Error(logErr))
	}
}

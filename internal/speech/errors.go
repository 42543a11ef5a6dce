package speech

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/polyglot/internal/llm"
	"github.com/abhisek/polyglot/internal/round"
)

var (
	// ErrNeedsCredential is returned when a remote backend has no usable
	// API key, either missing or rejected with 401/403.
	ErrNeedsCredential = errors.New("speech: API key required")

	// ErrNonAudioOutput is returned when the model replied with text
	// instead of audio.
	ErrNonAudioOutput = errors.New("speech: model returned text instead of audio")

	// ErrInterrupted is returned when a newer playback replaced this one
	// or Stop was called. Callers ignore it.
	ErrInterrupted = errors.New("speech: playback interrupted")

	// ErrEngine is returned when the local speech engine fails.
	ErrEngine = errors.New("speech: local engine failed")

	// ErrNoEngine is returned when no local speech engine is installed.
	ErrNoEngine = fmt.Errorf("%w: no speech engine found", ErrEngine)

	// ErrNoRound is returned by Replay when nothing has been played yet.
	ErrNoRound = errors.New("speech: nothing to replay")
)

// ProviderError wraps a remote failure with backend context.
type ProviderError struct {
	Backend round.Backend
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("speech [%s]: %v", e.Backend, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// EngineError is a local engine failure. It matches ErrEngine.
type EngineError struct {
	Engine string
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("speech [%s]: %v", e.Engine, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

func (e *EngineError) Is(target error) bool { return target == ErrEngine }

// wrapProviderError maps an SDK error to the speech error taxonomy.
func wrapProviderError(backend round.Backend, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return ErrInterrupted
	}
	var auth *llm.ErrAuth
	if errors.As(err, &auth) {
		return fmt.Errorf("%w: %v", ErrNeedsCredential, err)
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Backend: backend, Err: err}
}

// Message returns the text shown to the user for a playback error.
func Message(err error) string {
	var (
		pe *ProviderError
		ee *EngineError
	)
	switch {
	case err == nil, errors.Is(err, ErrInterrupted):
		return ""
	case errors.Is(err, ErrNeedsCredential):
		return "An API key is needed for remote voices. Set POLYGLOT_GEMINI_API_KEY or POLYGLOT_OPENAI_API_KEY, or switch to the local backend."
	case errors.Is(err, ErrNonAudioOutput):
		return "The model answered with text instead of audio. Try again."
	case errors.Is(err, ErrNoEngine):
		return "No speech engine found. Install espeak-ng or switch to a remote backend."
	case errors.As(err, &ee):
		return fmt.Sprintf("Speech synthesis error: %v", ee.Err)
	case errors.As(err, &pe):
		return "Could not generate speech. Please try again."
	default:
		return err.Error()
	}
}

// ErrorKind classifies err for playback events.
func ErrorKind(err error) string {
	var pe *ProviderError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInterrupted):
		return "interrupted"
	case errors.Is(err, ErrNeedsCredential):
		return "credential"
	case errors.Is(err, ErrNonAudioOutput):
		return "non_audio"
	case errors.Is(err, ErrEngine):
		return "engine"
	case errors.As(err, &pe):
		return "provider"
	default:
		return "other"
	}
}

// IsTransient reports whether err came from a remote provider and the round
// should be abandoned rather than kept.
func IsTransient(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) || errors.Is(err, ErrNonAudioOutput)
}

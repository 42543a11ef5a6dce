package round

import (
	"fmt"
	"slices"
)

// Backend selects how a target is turned into speech.
type Backend string

const (
	BackendLocal  Backend = "local"
	BackendGemini Backend = "gemini"
	BackendOpenAI Backend = "openai"
)

// Backends lists every supported speech backend in display order.
var Backends = []Backend{BackendLocal, BackendGemini, BackendOpenAI}

// IsRemote reports whether the backend calls a hosted speech API.
func (b Backend) IsRemote() bool {
	return b == BackendGemini || b == BackendOpenAI
}

// PlaybackRates are the selectable speech speeds.
var PlaybackRates = []float64{0.5, 0.75, 1.0, 1.5, 2.0}

const (
	DefaultMin      = 1
	DefaultMax      = 100
	DefaultLanguage = "en-US"
	DefaultRate     = 1.0
	DefaultVoice    = "Kore"
)

// Settings are the user-adjustable parameters of a round.
type Settings struct {
	Language     string
	Min          int
	Max          int
	PlaybackRate float64
	Voice        string
	Backend      Backend
}

// DefaultSettings returns the settings used on first launch.
func DefaultSettings() Settings {
	return Settings{
		Language:     DefaultLanguage,
		Min:          DefaultMin,
		Max:          DefaultMax,
		PlaybackRate: DefaultRate,
		Voice:        DefaultVoice,
		Backend:      BackendGemini,
	}
}

// Validate checks that a round can be generated from s.
func (s Settings) Validate() error {
	if s.Min > s.Max {
		return ErrInvalidRange
	}
	if s.PlaybackRate != 0 && !slices.Contains(PlaybackRates, s.PlaybackRate) {
		return fmt.Errorf("unsupported playback rate %v", s.PlaybackRate)
	}
	if s.Backend != "" && !slices.Contains(Backends, s.Backend) {
		return fmt.Errorf("unknown speech backend %q", s.Backend)
	}
	return nil
}

// Rate returns the playback rate, defaulting to 1.0 when unset.
func (s Settings) Rate() float64 {
	if s.PlaybackRate <= 0 {
		return DefaultRate
	}
	return s.PlaybackRate
}

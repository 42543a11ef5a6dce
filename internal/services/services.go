// Package services bundles the long-lived dependencies the TUI screens
// share. It is built once in cmd and handed to app.Run.
package services

import (
	"go.uber.org/zap"

	"github.com/abhisek/polyglot/internal/round"
	"github.com/abhisek/polyglot/internal/speech"
	"github.com/abhisek/polyglot/internal/store"
	"github.com/abhisek/polyglot/internal/vision"
)

// Services holds everything a screen may need. Optional members are nil
// when their backing configuration is missing.
type Services struct {
	Game      *round.Game
	Languages []round.Language
	Speech    *speech.Adapter

	// Classifier is nil when no vision-capable provider is configured.
	Classifier *vision.Classifier
	History    *vision.History

	Events store.EventRepo
	Logger *zap.Logger

	// SaveSettings persists practice settings. Optional.
	SaveSettings func(round.Settings) error

	// LatestVersion is set when a newer release is available.
	LatestVersion string
}

// Language returns the catalogue entry for the current practice language.
// Unknown codes fall back to a bare entry so playback still works.
func (s *Services) Language() round.Language {
	code := s.Game.Settings().Language
	if l, ok := round.FindLanguage(s.Languages, code); ok {
		return l
	}
	return round.Language{Code: code, Name: code}
}

// Log returns the shared logger, never nil.
func (s *Services) Log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// BackendReady reports whether the current speech backend can play.
func (s *Services) BackendReady() bool {
	if s.Speech == nil {
		return false
	}
	return s.Speech.Available(s.Game.Settings().Backend)
}

// ApplySettings validates and applies settings. A change resets the round
// and forgets cached speech. Persistence failures are logged only.
func (s *Services) ApplySettings(next round.Settings) (bool, error) {
	if err := next.Validate(); err != nil {
		return false, err
	}
	if !s.Game.ApplySettings(next) {
		return false, nil
	}
	if s.Speech != nil {
		s.Speech.Reset()
	}
	if s.SaveSettings != nil {
		if err := s.SaveSettings(next); err != nil {
			s.Log().Warn("failed to save settings", zap.Error(err))
		}
	}
	return true, nil
}

// Package config resolves runtime configuration from the TOML config file,
// a local .env file and POLYGLOT_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/polyglot/internal/llm"
	"github.com/abhisek/polyglot/internal/round"
)

// Config is the fully resolved configuration.
type Config struct {
	Path      string
	DBPath    string
	LogPath   string
	LogLevel  string
	Practice  round.Settings
	Languages []round.Language
	LLM       llm.Config
	Speech    Speech
}

// Speech holds speech backend settings.
type Speech struct {
	GeminiModel string
	OpenAIModel string
	// LocalEngine forces a specific OS engine ("say", "espeak-ng", ...).
	LocalEngine string
	Timeout     time.Duration
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Path:      DefaultConfigPath(),
		DBPath:    DefaultDBPath(),
		LogPath:   DefaultLogPath(),
		LogLevel:  "info",
		Practice:  round.DefaultSettings(),
		Languages: append([]round.Language(nil), round.DefaultLanguages...),
		LLM:       llm.DefaultConfig(),
		Speech: Speech{
			GeminiModel: "gemini-2.5-flash-preview-tts",
			OpenAIModel: "gpt-4o-mini-tts",
			Timeout:     30 * time.Second,
		},
	}
}

// Load resolves configuration. An empty path means POLYGLOT_CONFIG or the
// default XDG location.
func Load(path string) (*Config, error) {
	LoadDotEnv(".env")

	if path == "" {
		path = os.Getenv("POLYGLOT_CONFIG")
	}
	if path == "" {
		path = DefaultConfigPath()
	}

	fc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	cfg.Path = path
	if err := cfg.applyFile(fc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.LLM.AutoSelect()

	return cfg, cfg.Validate()
}

// LoadDotEnv loads variables from the given .env files. Missing files are
// skipped and variables already set in the environment win.
func LoadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		_ = godotenv.Load(p)
	}
}

func (c *Config) applyFile(fc FileConfig) error {
	p := fc.Practice
	if p.Lang != nil {
		c.Practice.Language = *p.Lang
	}
	if p.Min != nil {
		c.Practice.Min = *p.Min
	}
	if p.Max != nil {
		c.Practice.Max = *p.Max
	}
	if p.Speed != nil {
		c.Practice.PlaybackRate = *p.Speed
	}
	if p.Voice != nil {
		c.Practice.Voice = *p.Voice
	}
	if p.Backend != nil {
		c.Practice.Backend = round.Backend(*p.Backend)
	}

	if len(fc.Languages) > 0 {
		c.Languages = c.Languages[:0]
		for _, l := range fc.Languages {
			if l.Code == "" || l.Name == "" {
				return errors.New("every [[languages]] entry needs code and name")
			}
			c.Languages = append(c.Languages, round.Language{
				Code:       l.Code,
				Name:       l.Name,
				NativeName: l.Native,
				Voice:      l.Voice,
			})
		}
	}

	if fc.LLM.Provider != nil {
		c.LLM.Provider = *fc.LLM.Provider
	}
	if fc.LLM.Model != nil {
		c.LLM.SetModel(*fc.LLM.Model)
	}
	if fc.LLM.Timeout != nil {
		d, err := time.ParseDuration(*fc.LLM.Timeout)
		if err != nil {
			return fmt.Errorf("llm.timeout: %w", err)
		}
		c.LLM.Timeout = d
	}

	if fc.Speech.GeminiModel != nil {
		c.Speech.GeminiModel = *fc.Speech.GeminiModel
	}
	if fc.Speech.OpenAIModel != nil {
		c.Speech.OpenAIModel = *fc.Speech.OpenAIModel
	}
	if fc.Speech.LocalEngine != nil {
		c.Speech.LocalEngine = *fc.Speech.LocalEngine
	}
	if fc.Speech.Timeout != nil {
		d, err := time.ParseDuration(*fc.Speech.Timeout)
		if err != nil {
			return fmt.Errorf("speech.timeout: %w", err)
		}
		c.Speech.Timeout = d
	}

	if fc.Log.Level != nil {
		c.LogLevel = *fc.Log.Level
	}
	if fc.Log.Path != nil {
		c.LogPath = *fc.Log.Path
	}
	return nil
}

func (c *Config) applyEnv() error {
	llm.ApplyEnv(&c.LLM)

	if v := os.Getenv("POLYGLOT_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("POLYGLOT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("POLYGLOT_LANGUAGE"); v != "" {
		c.Practice.Language = v
	}
	if v := os.Getenv("POLYGLOT_SPEECH_BACKEND"); v != "" {
		c.Practice.Backend = round.Backend(strings.ToLower(v))
	}
	if v := os.Getenv("POLYGLOT_VOICE"); v != "" {
		c.Practice.Voice = v
	}
	if v := os.Getenv("POLYGLOT_SPEED"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("POLYGLOT_SPEED: %w", err)
		}
		c.Practice.PlaybackRate = rate
	}
	if v := os.Getenv("POLYGLOT_TTS_MODEL"); v != "" {
		c.Speech.GeminiModel = v
	}
	return nil
}

// Validate checks the resolved configuration for consistency.
func (c *Config) Validate() error {
	if len(c.Languages) == 0 {
		return errors.New("no languages configured")
	}
	if _, ok := round.FindLanguage(c.Languages, c.Practice.Language); !ok {
		return fmt.Errorf("practice language %q is not in the language list", c.Practice.Language)
	}
	if err := c.Practice.Validate(); err != nil {
		return fmt.Errorf("practice settings: %w", err)
	}
	return nil
}

// Language returns the catalogue entry for the practice language.
func (c *Config) Language() round.Language {
	l, _ := round.FindLanguage(c.Languages, c.Practice.Language)
	return l
}

// SavePractice persists s into the [practice] section of the config file at
// path, keeping every other section as it was.
func SavePractice(path string, s round.Settings) error {
	fc, err := LoadFile(path)
	if err != nil {
		return err
	}
	backend := string(s.Backend)
	fc.Practice = PracticeConfig{
		Lang:    &s.Language,
		Min:     &s.Min,
		Max:     &s.Max,
		Speed:   &s.PlaybackRate,
		Voice:   &s.Voice,
		Backend: &backend,
	}
	return WriteFile(path, fc)
}

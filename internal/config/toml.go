package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Pointer fields
// distinguish "unset" from zero values.
type FileConfig struct {
	Practice  PracticeConfig   `toml:"practice"`
	Languages []LanguageConfig `toml:"languages,omitempty"`
	LLM       LLMConfig        `toml:"llm"`
	Speech    SpeechConfig     `toml:"speech"`
	Log       LogConfig        `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Lang    *string  `toml:"lang,omitempty"`
	Min     *int     `toml:"min,omitempty"`
	Max     *int     `toml:"max,omitempty"`
	Speed   *float64 `toml:"speed,omitempty"`
	Voice   *string  `toml:"voice,omitempty"`
	Backend *string  `toml:"backend,omitempty"`
}

// LanguageConfig is one [[languages]] entry.
type LanguageConfig struct {
	Code   string `toml:"code"`
	Name   string `toml:"name"`
	Native string `toml:"native,omitempty"`
	Voice  string `toml:"voice,omitempty"`
}

// LLMConfig selects the provider used for image classification.
type LLMConfig struct {
	Provider *string `toml:"provider,omitempty"`
	Model    *string `toml:"model,omitempty"`
	Timeout  *string `toml:"timeout,omitempty"`
}

// SpeechConfig tunes the speech backends.
type SpeechConfig struct {
	GeminiModel *string `toml:"gemini-model,omitempty"`
	OpenAIModel *string `toml:"openai-model,omitempty"`
	LocalEngine *string `toml:"local-engine,omitempty"`
	Timeout     *string `toml:"timeout,omitempty"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level *string `toml:"level,omitempty"`
	Path  *string `toml:"path,omitempty"`
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// WriteFile encodes cfg to path, creating the parent directory.
func WriteFile(path string, cfg FileConfig) error {
	if err := EnsureDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

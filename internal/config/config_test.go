package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/polyglot/internal/round"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"POLYGLOT_CONFIG", "POLYGLOT_DB", "POLYGLOT_LOG_LEVEL", "POLYGLOT_LANGUAGE",
		"POLYGLOT_SPEECH_BACKEND", "POLYGLOT_VOICE", "POLYGLOT_SPEED", "POLYGLOT_TTS_MODEL",
		"POLYGLOT_LLM_PROVIDER", "POLYGLOT_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY",
		"POLYGLOT_OPENAI_API_KEY", "OPENAI_API_KEY", "POLYGLOT_ANTHROPIC_API_KEY",
		"ANTHROPIC_API_KEY", "POLYGLOT_OPENROUTER_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, round.DefaultSettings(), cfg.Practice)
	assert.Len(t, cfg.Languages, len(round.DefaultLanguages))
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini-tts", cfg.Speech.OpenAIModel)
	assert.Contains(t, cfg.DBPath, filepath.Join("polyglot", "polyglot.db"))
}

func TestLoad_FileOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[practice]
lang = "fr-FR"
min = 10
max = 20
speed = 0.75
backend = "local"

[llm]
provider = "anthropic"
model = "claude-sonnet"
timeout = "45s"

[speech]
local-engine = "espeak-ng"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fr-FR", cfg.Practice.Language)
	assert.Equal(t, 10, cfg.Practice.Min)
	assert.Equal(t, 20, cfg.Practice.Max)
	assert.Equal(t, 0.75, cfg.Practice.PlaybackRate)
	assert.Equal(t, round.BackendLocal, cfg.Practice.Backend)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet", cfg.LLM.Anthropic.Model)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "espeak-ng", cfg.Speech.LocalEngine)
	assert.Equal(t, "French", cfg.Language().Name)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[practice]\nlang = \"fr-FR\"\n")
	t.Setenv("POLYGLOT_LANGUAGE", "de-DE")
	t.Setenv("POLYGLOT_SPEECH_BACKEND", "OpenAI")
	t.Setenv("API_KEY", "k-123")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "de-DE", cfg.Practice.Language)
	assert.Equal(t, round.BackendOpenAI, cfg.Practice.Backend)
	assert.Equal(t, "k-123", cfg.LLM.Gemini.APIKey)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
}

func TestLoad_CustomLanguages(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[practice]
lang = "nl-NL"

[[languages]]
code = "nl-NL"
name = "Dutch"
native = "Nederlands"
voice = "Puck"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Languages, 1)
	assert.Equal(t, "Puck", cfg.Language().Voice)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "[practice]\nlanguage = \"en-US\"\n"},
		{"inverted range", "[practice]\nmin = 50\nmax = 5\n"},
		{"unknown language", "[practice]\nlang = \"xx-XX\"\n"},
		{"bad speed", "[practice]\nspeed = 3.0\n"},
		{"bad timeout", "[llm]\ntimeout = \"soon\"\n"},
		{"language without name", "[[languages]]\ncode = \"en-US\"\n"},
		{"malformed", "[practice\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestSavePractice_PreservesOtherSections(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[speech]\nlocal-engine = \"say\"\n")

	s := round.DefaultSettings()
	s.Language = "ja-JP"
	s.Min, s.Max = 100, 999
	s.Backend = round.BackendLocal
	require.NoError(t, SavePractice(path, s))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, cfg.Practice)
	assert.Equal(t, "say", cfg.Speech.LocalEngine)
}

package cmd

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/polyglot/internal/round"
)

func newFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	c.Flags().String("config", "", "")
	c.Flags().String("db", "", "")
	c.Flags().Bool("debug", false, "")
	addPracticeFlags(c)
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestApplyPracticeFlags(t *testing.T) {
	c := newFlagCmd(t, "--lang", "it-IT", "--max", "500", "--speed", "0.75", "--backend", "local")

	s := round.DefaultSettings()
	applyPracticeFlags(c, &s)

	assert.Equal(t, "it-IT", s.Language)
	assert.Equal(t, round.DefaultMin, s.Min, "unset flags keep their value")
	assert.Equal(t, 500, s.Max)
	assert.Equal(t, 0.75, s.PlaybackRate)
	assert.Equal(t, round.DefaultVoice, s.Voice)
	assert.Equal(t, round.BackendLocal, s.Backend)
}

func TestPracticeConfig_RejectsBadRange(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	c := newFlagCmd(t,
		"--config", filepath.Join(dir, "config.toml"),
		"--db", filepath.Join(dir, "polyglot.db"),
		"--min", "50", "--max", "5")

	_, err := practiceConfig(c)
	assert.ErrorIs(t, err, round.ErrInvalidRange)
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "other.db")
	c := newFlagCmd(t, "--config", filepath.Join(dir, "config.toml"), "--db", db, "--debug")

	cfg, err := loadConfig(c)
	require.NoError(t, err)
	assert.Equal(t, db, cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "—", formatPercent(3, 0))
	assert.Equal(t, "67%", formatPercent(2, 3))
	assert.Equal(t, "100%", formatPercent(4, 4))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Españ", truncate("Español", 5))
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"run", "play", "say", "voices", "detect", "history", "stats", "config", "llm", "update", "version"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "missing command %q", name)
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "46.9 KiB", formatBytes(48000))
	assert.Equal(t, "2.0 MiB", formatBytes(2<<20))
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"is_teeth\": true\n}", prettyJSON(`{"is_teeth":true}`))
	assert.Equal(t, "[user]\nhello", prettyJSON("[user]\nhello"))
}

func TestEventCost(t *testing.T) {
	assert.Equal(t, "?", eventCost("mock", 10, 10))
	assert.Equal(t, "$0.0009", eventCost("gpt-4o-mini", 2000, 1000))
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/polyglot/internal/config"
	"github.com/abhisek/polyglot/internal/round"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Jump straight into a practice session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := practiceConfig(cmd)
		if err != nil {
			return err
		}
		return launch(cmd, cfg, true)
	},
}

func init() {
	addPracticeFlags(playCmd)
}

// addPracticeFlags registers the per-invocation settings overrides.
func addPracticeFlags(cmd *cobra.Command) {
	cmd.Flags().String("lang", "", "Language code, e.g. de-DE")
	cmd.Flags().Int("min", 0, "Smallest number to draw")
	cmd.Flags().Int("max", 0, "Largest number to draw")
	cmd.Flags().Float64("speed", 0, "Playback rate (0.5, 0.75, 1, 1.5, 2)")
	cmd.Flags().String("voice", "", "Voice name")
	cmd.Flags().String("backend", "", "Speech backend: local, gemini or openai")
}

// applyPracticeFlags copies the flags the user actually set onto s.
func applyPracticeFlags(cmd *cobra.Command, s *round.Settings) {
	f := cmd.Flags()
	if f.Changed("lang") {
		s.Language, _ = f.GetString("lang")
	}
	if f.Changed("min") {
		s.Min, _ = f.GetInt("min")
	}
	if f.Changed("max") {
		s.Max, _ = f.GetInt("max")
	}
	if f.Changed("speed") {
		s.PlaybackRate, _ = f.GetFloat64("speed")
	}
	if f.Changed("voice") {
		s.Voice, _ = f.GetString("voice")
	}
	if f.Changed("backend") {
		b, _ := f.GetString("backend")
		s.Backend = round.Backend(b)
	}
}

// practiceConfig loads configuration with practice flag overrides applied
// and validated.
func practiceConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if cfg == nil {
		return nil, err
	}
	applyPracticeFlags(cmd, &cfg.Practice)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

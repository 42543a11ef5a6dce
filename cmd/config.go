package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/polyglot/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if cfg == nil {
			return err
		}

		fmt.Printf("Config file:  %s%s\n", cfg.Path, missingNote(cfg.Path))
		fmt.Printf("Database:     %s\n", cfg.DBPath)
		fmt.Printf("Log file:     %s (%s)\n", cfg.LogPath, cfg.LogLevel)
		fmt.Println()

		p := cfg.Practice
		fmt.Println("Practice")
		fmt.Printf("  language    %s\n", p.Language)
		fmt.Printf("  range       %d–%d\n", p.Min, p.Max)
		fmt.Printf("  speed       %gx\n", p.PlaybackRate)
		fmt.Printf("  voice       %s\n", p.Voice)
		fmt.Printf("  backend     %s\n", p.Backend)
		fmt.Println()

		codes := make([]string, 0, len(cfg.Languages))
		for _, l := range cfg.Languages {
			codes = append(codes, l.Code)
		}
		fmt.Printf("Languages:    %s\n", strings.Join(codes, ", "))
		fmt.Println()

		fmt.Println("Speech")
		fmt.Printf("  gemini      %s (key %s)\n", cfg.Speech.GeminiModel, keyState(cfg.LLM.Gemini.APIKey))
		fmt.Printf("  openai      %s (key %s)\n", cfg.Speech.OpenAIModel, keyState(cfg.LLM.OpenAI.APIKey))
		engine := cfg.Speech.LocalEngine
		if engine == "" {
			engine = "auto"
		}
		fmt.Printf("  local       %s\n", engine)
		fmt.Printf("  timeout     %s\n", cfg.Speech.Timeout)
		fmt.Println()

		provider := cfg.LLM.Provider
		if provider == "" {
			provider = "none"
		}
		fmt.Printf("Vision model: %s\n", provider)

		if err != nil {
			fmt.Println()
			return fmt.Errorf("configuration is invalid: %w", err)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current practice settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if _, err := os.Stat(cfg.Path); err == nil {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				return fmt.Errorf("%s already exists (use --force to overwrite the practice section)", cfg.Path)
			}
		}
		if err := config.SavePractice(cfg.Path, cfg.Practice); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Println("Wrote", cfg.Path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
}

func missingNote(path string) string {
	if _, err := os.Stat(path); err != nil {
		return " (not found, using defaults)"
	}
	return ""
}

func keyState(key string) string {
	if key == "" {
		return "missing"
	}
	return "set"
}

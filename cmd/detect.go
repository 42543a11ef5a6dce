package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/polyglot/internal/vision"
)

var detectCmd = &cobra.Command{
	Use:   "detect <image-url>",
	Short: "Ask the vision model whether an image shows teeth",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		e, err := newEnv(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		if e.classifier == nil {
			return errors.New("no vision model configured: set an API key for gemini, openai, anthropic or openrouter")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		fmt.Println("Analyzing image...")
		res, err := e.classifier.Analyze(ctx, args[0])
		if err != nil {
			return errors.New(vision.Message(err))
		}
		if err := e.history.Add(ctx, *res); err != nil {
			e.logger.Warn("failed to save image result", zap.Error(err))
		}

		fmt.Println()
		fmt.Printf("Verdict:     %s\n", res.Verdict())
		fmt.Printf("Confidence:  %d%%\n", res.ConfidencePercent())
		fmt.Printf("Description: %s\n", res.Description)
		return nil
	},
}

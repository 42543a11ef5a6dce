package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/polyglot/internal/app"
	"github.com/abhisek/polyglot/internal/config"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch the interactive app (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

// runApp loads configuration, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, startPractice bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return launch(cmd, cfg, startPractice)
}

func launch(cmd *cobra.Command, cfg *config.Config, startPractice bool) error {
	ctx := cmd.Context()
	e, err := newEnv(ctx, cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	svc := e.services()
	svc.LatestVersion = latestVersion(ctx, e.logger, 1500*time.Millisecond)

	e.logger.Info("starting",
		zap.String("version", version),
		zap.String("language", cfg.Practice.Language),
		zap.String("backend", string(cfg.Practice.Backend)))

	return app.Run(app.Options{Services: svc, StartPractice: startPractice})
}

package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "polyglot",
	Short: "Listening practice for numbers in any language",
	Long: "Polyglot Numbers: a terminal app that speaks random numbers in a chosen language\n" +
		"and checks what you type back. Ships a small image classifier on the side.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides POLYGLOT_CONFIG env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides POLYGLOT_DB env var)")
	rootCmd.PersistentFlags().Bool("debug", false, "Write debug-level logs")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(sayCmd)
	rootCmd.AddCommand(voicesCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/polyglot/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openCmdStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		repo := st.EventRepo()

		langs, err := repo.LanguageStats(ctx)
		if err != nil {
			return fmt.Errorf("query language stats: %w", err)
		}
		if len(langs) == 0 {
			fmt.Println("No practice recorded yet. Run: polyglot play")
			return nil
		}

		fmt.Printf("%-10s  %7s  %8s  %7s  %7s  %8s\n", "Language", "Rounds", "Attempts", "Correct", "Skipped", "Accuracy")
		rule(60)
		for _, l := range langs {
			fmt.Printf("%-10s  %7d  %8d  %7d  %7d  %8s\n",
				l.Language, l.Rounds, l.Attempts, l.Correct, l.Skipped, formatPercent(l.Correct, l.Attempts))
		}

		limit, _ := cmd.Flags().GetInt("sessions")
		if limit <= 0 {
			return nil
		}
		sessions, err := repo.QuerySessionSummaries(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(sessions) == 0 {
			return nil
		}

		fmt.Println()
		fmt.Printf("%-16s  %-10s  %6s  %8s  %8s  %6s\n", "Session", "Language", "Time", "Attempts", "Accuracy", "Streak")
		rule(64)
		for _, s := range sessions {
			fmt.Printf("%-16s  %-10s  %6s  %8d  %8s  %6d\n",
				s.Timestamp.Local().Format("2006-01-02 15:04"), s.Language,
				fmt.Sprintf("%d:%02d", s.DurationSecs/60, s.DurationSecs%60),
				s.Attempts, formatPercent(s.Correct, s.Attempts), s.BestStreak)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("sessions", 10, "Number of recent sessions to list (0 hides them)")
}

func formatPercent(n, total int) string {
	if total == 0 {
		return "—"
	}
	return fmt.Sprintf("%.0f%%", float64(n)*100/float64(total))
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/polyglot/internal/vision"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent image classifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openCmdStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		h, err := vision.LoadHistory(ctx, st.KVRepo())
		if err != nil {
			return err
		}

		if wipe, _ := cmd.Flags().GetBool("clear"); wipe {
			if err := h.Clear(ctx); err != nil {
				return fmt.Errorf("clear history: %w", err)
			}
			fmt.Println("Image history cleared.")
			return nil
		}

		entries := h.Entries()
		if len(entries) == 0 {
			fmt.Println("No images analyzed yet.")
			return nil
		}

		fmt.Printf("%-16s  %-9s  %4s  %s\n", "When", "Teeth", "Conf", "URL")
		rule(90)
		for _, r := range entries {
			teeth := "✗ no"
			if r.IsTeeth {
				teeth = "✓ yes"
			}
			fmt.Printf("%-16s  %-9s  %3d%%  %s\n",
				r.Timestamp.Local().Format("2006-01-02 15:04"), teeth, r.ConfidencePercent(), truncate(r.ImageURL, 60))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Bool("clear", false, "Forget all saved results")
}

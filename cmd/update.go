package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/polyglot/internal/selfupdate"
)

const updateTimeout = 2 * time.Minute

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update polyglot to the latest release",
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")
		checkOnly, _ := cmd.Flags().GetBool("check")

		ctx, cancel := context.WithTimeout(cmd.Context(), updateTimeout)
		defer cancel()
		checker := selfupdate.NewChecker(selfupdate.WithTimeout(updateTimeout))

		if checkOnly {
			return printUpdateCheck(ctx, checker)
		}

		err := checker.Update(ctx, &selfupdate.UpdateInput{
			CurrentVersion: version,
			TargetVersion:  to,
		}, func(p selfupdate.UpdateProgress) {
			fmt.Println(p.Message)
		})

		switch {
		case err == nil:
			return nil
		case errors.Is(err, selfupdate.ErrDevBuild):
			fmt.Println("Cannot update a development build. Install a release build first.")
			return nil
		case errors.Is(err, selfupdate.ErrAlreadyLatest):
			fmt.Printf("Already running %s.\n", version)
			return nil
		case os.IsPermission(err):
			return fmt.Errorf("%w\n\nTry running: sudo polyglot update", err)
		default:
			return err
		}
	},
}

func printUpdateCheck(ctx context.Context, checker *selfupdate.Checker) error {
	res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
	if err != nil {
		return fmt.Errorf("check for updates: %w", err)
	}
	if !res.UpdateAvailable {
		fmt.Printf("polyglot %s is up to date (latest %s).\n", version, res.LatestVersion)
		return nil
	}
	fmt.Printf("polyglot %s is available (running %s).\n%s\n", res.LatestVersion, version, res.ReleaseURL)
	return nil
}

func init() {
	updateCmd.Flags().String("to", "", "Install a specific release tag instead of the latest")
	updateCmd.Flags().Bool("check", false, "Only report whether an update is available")
	updateCmd.MarkFlagsMutuallyExclusive("to", "check")
}

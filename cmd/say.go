package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/polyglot/internal/round"
	"github.com/abhisek/polyglot/internal/speech"
)

var sayCmd = &cobra.Command{
	Use:   "say [number]",
	Short: "Speak a number once, or a random one from the configured range",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := practiceConfig(cmd)
		if err != nil {
			return err
		}

		var n int
		if len(args) == 1 {
			n, err = strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("not a whole number: %q", args[0])
			}
		} else {
			n, err = round.NewGenerator(nil).Generate(cfg.Practice.Min, cfg.Practice.Max)
			if err != nil {
				return err
			}
		}

		e, err := newEnv(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		backend := cfg.Practice.Backend
		if !e.adapter.Available(backend) {
			return fmt.Errorf("speech backend %q is not available", backend)
		}

		req := speech.RequestFor(n, cfg.Language(), cfg.Practice)
		if err := e.adapter.Play(cmd.Context(), backend, req); err != nil && !errors.Is(err, speech.ErrInterrupted) {
			return errors.New(speech.Message(err))
		}

		reveal, _ := cmd.Flags().GetBool("reveal")
		if reveal || len(args) == 0 {
			fmt.Println(n)
		}
		return nil
	},
}

func init() {
	addPracticeFlags(sayCmd)
	sayCmd.Flags().Bool("reveal", false, "Print the number after speaking it")
}

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/polyglot/internal/round"
	"github.com/abhisek/polyglot/internal/speech"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List voices for a language, best match first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		lang, _ := cmd.Flags().GetString("lang")
		if lang == "" {
			lang = cfg.Practice.Language
		}

		fmt.Println("Remote voices:")
		for _, b := range round.Backends {
			if !b.IsRemote() {
				continue
			}
			fmt.Printf("  %-7s %s\n", b, strings.Join(round.VoicesFor(b), ", "))
		}
		fmt.Println()

		speaker, err := speech.NewLocalSpeaker(cfg.Speech.LocalEngine, nil)
		if err != nil {
			fmt.Println("Local engine: not found")
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		voices, err := speaker.Voices(ctx)
		if err != nil {
			return fmt.Errorf("list %s voices: %w", speaker.Engine(), err)
		}

		ranked := speech.RankVoices(voices, lang)
		fmt.Printf("Local engine: %s (%s)\n", speaker.Engine(), lang)
		if len(ranked) == 0 {
			fmt.Println("  No voices for this language.")
			return nil
		}
		fmt.Printf("  %-32s  %-10s  %s\n", "Voice", "Language", "Score")
		fmt.Println("  " + strings.Repeat("─", 52))
		for _, v := range ranked {
			def := ""
			if v.Default {
				def = " (default)"
			}
			fmt.Printf("  %-32s  %-10s  %5d%s\n", truncate(v.Name, 32), v.Lang, v.Score, def)
		}
		return nil
	},
}

func init() {
	voicesCmd.Flags().String("lang", "", "Language code (defaults to the practice language)")
}

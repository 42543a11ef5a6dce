package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/polyglot/internal/llm"
	"github.com/abhisek/polyglot/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect remote model calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openCmdStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No model requests recorded.")
			return nil
		}

		fmt.Printf("%-5s  %-16s  %-14s  %-30s  %11s  %6s  %9s  %s\n",
			"ID", "Time", "Purpose", "Model", "Tokens", "Ms", "Cost", "OK")
		rule(104)
		for _, e := range events {
			fmt.Printf("%-5d  %-16s  %-14s  %-30s  %11s  %6d  %9s  %s\n",
				e.ID,
				e.Timestamp.Local().Format("01-02 15:04:05"),
				truncate(e.Purpose, 14),
				truncate(e.Provider+"/"+e.Model, 30),
				fmt.Sprintf("%d/%d", e.InputTokens, e.OutputTokens),
				e.LatencyMs,
				eventCost(e.Model, e.InputTokens, e.OutputTokens),
				mark(e.Success),
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openCmdStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		fmt.Printf("ID:        %d\n", e.ID)
		fmt.Printf("Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Model:     %s (%s)\n", e.Model, e.Provider)
		fmt.Printf("Purpose:   %s\n", e.Purpose)
		fmt.Printf("Tokens:    %d in / %d out, %s\n", e.InputTokens, e.OutputTokens, eventCost(e.Model, e.InputTokens, e.OutputTokens))
		fmt.Printf("Latency:   %dms\n", e.LatencyMs)
		fmt.Printf("Success:   %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Printf("Error:     %s\n", e.ErrorMessage)
		}

		section("REQUEST", e.RequestBody)
		section("RESPONSE", prettyJSON(e.ResponseBody))
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage, estimated cost and speech playback totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openCmdStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()

		byPurpose, err := repo.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := repo.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		playback, err := repo.PlaybackUsage(ctx)
		if err != nil {
			return fmt.Errorf("query playback usage: %w", err)
		}

		if len(byPurpose) == 0 && len(playback) == 0 {
			fmt.Println("No remote usage recorded yet.")
			return nil
		}
		if len(byPurpose) > 0 {
			printPurposeUsage(byPurpose)
			fmt.Println()
			printModelCost(byModel)
		}
		if len(playback) > 0 {
			if len(byPurpose) > 0 {
				fmt.Println()
			}
			printPlaybackUsage(playback)
		}
		return nil
	},
}

func printPurposeUsage(usage []store.LLMUsage) {
	fmt.Println("Requests by purpose")
	rule(72)
	fmt.Printf("%-16s  %6s  %10s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	rule(72)

	var calls, in, out int
	for _, u := range usage {
		fmt.Printf("%-16s  %6d  %10d  %10d  %10d  %8d\n",
			truncate(u.Purpose, 16), u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	rule(72)
	fmt.Printf("%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, out, in+out)
}

func printModelCost(usage []store.LLMUsage) {
	fmt.Println("Estimated cost (USD)")
	rule(72)
	fmt.Printf("%-32s  %6s  %10s  %10s  %9s\n", "Model", "Calls", "Input", "Output", "Cost")
	rule(72)

	var total float64
	var unpriced []string
	for _, u := range usage {
		cost := llm.LookupCost(u.Model)
		shown := "?"
		if cost == nil {
			unpriced = append(unpriced, u.Model)
		} else {
			c := cost.Cost(u.InputTokens, u.OutputTokens)
			total += c
			shown = formatCost(c)
		}
		fmt.Printf("%-32s  %6d  %10d  %10d  %9s\n", truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, shown)
	}
	rule(72)

	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Printf("%-32s  %6s  %10s  %10s  %9s\n", label, "", "", "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Printf("\nNo pricing for: %s\n", strings.Join(unpriced, ", "))
	}
}

func printPlaybackUsage(usage []store.PlaybackUsage) {
	fmt.Println("Speech playback")
	rule(72)
	fmt.Printf("%-10s  %6s  %7s  %7s  %8s  %10s\n", "Backend", "Plays", "Replays", "Failed", "Avg Ms", "Audio")
	rule(72)
	for _, u := range usage {
		fmt.Printf("%-10s  %6d  %7d  %7d  %8d  %10s\n",
			u.Backend, u.Plays, u.Cached, u.Failed, u.AvgLatencyMs, formatBytes(u.AudioBytes))
	}
}

// openCmdStore opens the store named by the config and --db flag.
func openCmdStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openStore(cfg)
}

func eventCost(model string, in, out int) string {
	cost := llm.LookupCost(model)
	if cost == nil {
		return "?"
	}
	return formatCost(cost.Cost(in, out))
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// prettyJSON indents body when it is JSON and returns it unchanged otherwise.
func prettyJSON(body string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(body), "", "  "); err != nil {
		return body
	}
	return buf.String()
}

func section(title, body string) {
	fmt.Println()
	rule(60)
	fmt.Println(title)
	rule(60)
	if body == "" {
		body = "(not captured)"
	}
	fmt.Println(body)
}

func rule(width int) {
	fmt.Println(strings.Repeat("─", width))
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose (e.g. "+llm.PurposeImageClassify+")")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}

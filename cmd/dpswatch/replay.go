package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dpswatch/internal/watch"
)

var (
	replayInput string
	replaySpeed float64
	replayTop   int
	replayTUI   bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded snapshot log",
	Long:  "replay feeds snapshots from a JSONL log (written with --log-file) back through the leaderboard renderer.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		if replayTUI {
			tw := watch.NewTUIWriter(replayTop)
			defer tw.Close()
			return watch.ReplayFile(replayInput, tw, replaySpeed)
		}
		return watch.ReplayFile(replayInput, watch.NewStdoutWriter(replayTop), replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to snapshot log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().IntVar(&replayTop, "top", 8, "How many combatants to show (0 = all)")
	replayCmd.Flags().BoolVar(&replayTUI, "tui", false, "Render in a full-screen TUI")
	replayCmd.MarkFlagRequired("input")
}

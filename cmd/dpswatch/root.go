package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dpswatch",
	Short: "Live DPS leaderboard for ACT-compatible combat telemetry",
	Long:  "dpswatch subscribes to an IINACT/ACT websocket feed and renders a live combatant leaderboard in the terminal.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(replayCmd)
}

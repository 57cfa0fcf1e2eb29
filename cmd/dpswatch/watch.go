package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dpswatch/internal/client"
	"dpswatch/internal/config"
	"dpswatch/internal/logging"
	"dpswatch/internal/watch"
)

var (
	watchURL        string
	watchConfigPath string
	watchSchemaPath string
	watchTimeout    time.Duration
	watchTop        int
	watchOnce       bool
	watchShowLog    bool
	watchPartyOnly  bool
	watchSniff      bool
	watchRawOnce    bool
	watchTUI        bool
	watchLogFile    string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Connect to the feed and render the live leaderboard",
	Long:  "watch opens one websocket session, subscribes to CombatData and LogLine events, and renders a DPS leaderboard for every snapshot until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(watchConfigPath, watchSchemaPath)
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd, cfg)

		logger := logging.New()

		// Key-sniffing and raw-dump modes bypass the regular writers; they
		// print once and exit.
		diagnostic := watchSniff || watchRawOnce
		writer, logWriter, cleanup, err := newWriters(cfg, diagnostic, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		watcher := watch.NewWatcher(watch.Options{
			Once:      watchOnce,
			Sniff:     watchSniff,
			RawOnce:   watchRawOnce,
			PartyOnly: cfg.PartyOnly,
		}, writer, logWriter, logger)

		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logger))
		defer cancel()
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigs
			cancel()
		}()

		cli := client.New(cfg.ServerURL, time.Duration(cfg.ReadTimeout), logger)
		return cli.Run(ctx, watcher)
	},
}

// applyFlagOverrides layers explicit flags and env vars over the config
// file. Flags win over env, env wins over file.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if env := os.Getenv("DPSWATCH_WS_URL"); env != "" {
		cfg.ServerURL = env
	}
	if cmd.Flags().Changed("url") {
		cfg.ServerURL = watchURL
	}
	if cmd.Flags().Changed("timeout") {
		cfg.ReadTimeout = config.Duration(watchTimeout)
	}
	if cmd.Flags().Changed("top") {
		cfg.Top = watchTop
	}
	if cmd.Flags().Changed("show-logline") {
		cfg.ShowLogLines = watchShowLog
	}
	if cmd.Flags().Changed("party-only") {
		cfg.PartyOnly = watchPartyOnly
	}
	if cmd.Flags().Changed("tui") {
		cfg.TUI = watchTUI
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = watchLogFile
	}
}

func init() {
	watchCmd.Flags().StringVar(&watchURL, "url", client.DefaultURL, "Websocket URL of the combat telemetry feed")
	watchCmd.Flags().StringVar(&watchConfigPath, "config", "config/watcher.yaml", "Path to watcher configuration YAML")
	watchCmd.Flags().StringVar(&watchSchemaPath, "schema", "schemas/watcher.cue", "Path to CUE schema file")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", client.DefaultReadTimeout, "Receive timeout before an idle notice")
	watchCmd.Flags().IntVar(&watchTop, "top", 8, "How many combatants to show (0 = all)")
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "Exit after the first CombatData event")
	watchCmd.Flags().BoolVar(&watchShowLog, "show-logline", false, "Print LogLine summaries too")
	watchCmd.Flags().BoolVar(&watchPartyOnly, "party-only", false, "Only show combatants with a known job code")
	watchCmd.Flags().BoolVar(&watchSniff, "sniff", false, "Print raw keys for Encounter and one Combatant, then exit")
	watchCmd.Flags().BoolVar(&watchRawOnce, "raw-once", false, "Print first CombatData event as raw JSON and exit")
	watchCmd.Flags().BoolVar(&watchTUI, "tui", false, "Render in a full-screen TUI instead of plain tables")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "Path to record snapshots for replay (JSONL)")
}

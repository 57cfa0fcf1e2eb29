package main

import (
	"log/slog"
	"os"

	"dpswatch/internal/config"
	"dpswatch/internal/watch"
)

// newWriters sets up snapshot and log line writers based on config and env
// vars. It returns the writers and a cleanup function to close resources.
// The log line writer is nil unless log line output is enabled.
func newWriters(cfg *config.Config, diagnostic bool, logger *slog.Logger) (watch.SnapshotWriter, watch.LogLineWriter, func(), error) {
	cleanup := func() {}
	if diagnostic {
		return watch.NewStdoutWriter(cfg.Top), nil, cleanup, nil
	}

	var console watch.SnapshotWriter
	var consoleLog watch.LogLineWriter
	if cfg.TUI {
		tw := watch.NewTUIWriter(cfg.Top)
		console, consoleLog = tw, tw
		cleanup = func() { tw.Close() }
	} else {
		sw := watch.NewStdoutWriter(cfg.Top)
		console, consoleLog = sw, sw
	}

	snapWriters := []watch.SnapshotWriter{console}
	var logWriters []watch.LogLineWriter
	if cfg.ShowLogLines {
		logWriters = append(logWriters, consoleLog)
	}

	if cfg.LogFile != "" {
		logPath := ""
		if cfg.ShowLogLines {
			logPath = cfg.LogFile + ".loglines"
		}
		fw, err := watch.NewFileWriter(cfg.LogFile, logPath)
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		snapWriters = append(snapWriters, fw)
		if cfg.ShowLogLines {
			logWriters = append(logWriters, fw)
		}
		prev := cleanup
		cleanup = func() {
			fw.Close()
			prev()
		}
	}

	if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); endpoint != "" {
		gw, err := watch.NewGreptimeWriter(endpoint, "public", os.Getenv("GREPTIMEDB_TABLE"), logger)
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		snapWriters = append(snapWriters, gw)
		prev := cleanup
		cleanup = func() {
			gw.Close()
			prev()
		}
	}

	mw := watch.NewMultiWriter(snapWriters, logWriters)
	if !cfg.ShowLogLines {
		return mw, nil, cleanup, nil
	}
	return mw, mw, cleanup, nil
}

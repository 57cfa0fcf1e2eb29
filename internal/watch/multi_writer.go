package watch

import "dpswatch/internal/combat"

// MultiWriter fans snapshots and log lines out to multiple writers.
type MultiWriter struct {
	snapWriters []SnapshotWriter
	logWriters  []LogLineWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(sws []SnapshotWriter, lws []LogLineWriter) *MultiWriter {
	return &MultiWriter{snapWriters: sws, logWriters: lws}
}

// WriteSnapshot sends a snapshot to all snapshot writers.
func (mw *MultiWriter) WriteSnapshot(snap combat.Snapshot) error {
	for _, w := range mw.snapWriters {
		if err := w.WriteSnapshot(snap); err != nil {
			return err
		}
	}
	return nil
}

// WriteLogLine sends a log line to all log line writers.
func (mw *MultiWriter) WriteLogLine(line combat.LogLine) error {
	for _, w := range mw.logWriters {
		if err := w.WriteLogLine(line); err != nil {
			return err
		}
	}
	return nil
}

package watch

import (
	"testing"

	"dpswatch/internal/combat"
)

func TestMultiWriterFanOut(t *testing.T) {
	a := &fakeSnapshotWriter{}
	b := &fakeSnapshotWriter{}
	l := &fakeLogWriter{}
	mw := NewMultiWriter([]SnapshotWriter{a, b}, []LogLineWriter{l})

	if err := mw.WriteSnapshot(snapshotFixture()); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	if len(a.snaps) != 1 || len(b.snaps) != 1 {
		t.Fatalf("snapshot not fanned out: %d, %d", len(a.snaps), len(b.snaps))
	}

	if err := mw.WriteLogLine(combat.LogLine{Text: "x"}); err != nil {
		t.Fatalf("write log line: %v", err)
	}
	if len(l.lines) != 1 {
		t.Fatalf("log line not fanned out: %d", len(l.lines))
	}
}

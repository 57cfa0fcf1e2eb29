package watch

import (
	"path/filepath"
	"testing"
	"time"

	"dpswatch/internal/combat"
)

func TestFileWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	snapPath := filepath.Join(dir, "encounters.jsonl")
	logPath := filepath.Join(dir, "loglines.jsonl")

	fw, err := NewFileWriter(snapPath, logPath)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	snap := snapshotFixture()
	snap.Timestamp = time.Unix(100, 0).UTC()
	if err := fw.WriteSnapshot(snap); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	if err := fw.WriteLogLine(combat.LogLine{Text: "hello", Timestamp: time.Unix(100, 0).UTC()}); err != nil {
		t.Fatalf("write log line: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	target := &fakeSnapshotWriter{}
	if err := ReplayFile(snapPath, target, 0); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(target.snaps) != 1 {
		t.Fatalf("expected 1 replayed snapshot, got %d", len(target.snaps))
	}
	got := target.snaps[0]
	if got.Encounter.Title != snap.Encounter.Title || len(got.Rows) != len(snap.Rows) {
		t.Fatalf("replayed snapshot differs: %+v", got)
	}
	if got.Rows[0].Name != "Bob" {
		t.Fatalf("row order lost on replay: %+v", got.Rows)
	}
}

func TestFileWriterWithoutLogPath(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWriter(filepath.Join(dir, "s.jsonl"), "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer fw.Close()
	if err := fw.WriteLogLine(combat.LogLine{Text: "dropped"}); err != nil {
		t.Fatalf("log line without file should be a no-op, got %v", err)
	}
}

func TestReplayPacing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.jsonl")
	fw, err := NewFileWriter(path, "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	base := time.Unix(100, 0).UTC()
	for i := 0; i < 3; i++ {
		snap := snapshotFixture()
		snap.Timestamp = base.Add(time.Duration(i) * 50 * time.Millisecond)
		if err := fw.WriteSnapshot(snap); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	fw.Close()

	target := &fakeSnapshotWriter{}
	start := time.Now()
	if err := ReplayFile(path, target, 1); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(target.snaps) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(target.snaps))
	}
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Fatalf("replay ignored original pacing: %v", elapsed)
	}
}

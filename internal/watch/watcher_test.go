package watch

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"dpswatch/internal/combat"
)

type fakeSnapshotWriter struct {
	snaps []combat.Snapshot
}

func (f *fakeSnapshotWriter) WriteSnapshot(s combat.Snapshot) error {
	f.snaps = append(f.snaps, s)
	return nil
}

type fakeLogWriter struct {
	lines []combat.LogLine
}

func (f *fakeLogWriter) WriteLogLine(l combat.LogLine) error {
	f.lines = append(f.lines, l)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func decode(t *testing.T, raw string) *combat.Event {
	t.Helper()
	ev, err := combat.DecodeEvent([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return ev
}

const combatFrame = `{"type":"CombatData",
	"Encounter":{"title":"Training Dummy","duration":"1:23","encdps":"1500"},
	"Combatant":{"Alice":{"encdps":"900","Job":"WHM"},"Bob":{"ENCDPS":"1600","job":"DRK"}}}`

func TestWatcherCombatData(t *testing.T) {
	fw := &fakeSnapshotWriter{}
	w := NewWatcher(Options{}, fw, nil, testLogger())
	done, err := w.HandleEvent(decode(t, combatFrame), []byte(combatFrame))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if done {
		t.Fatal("should not stop without --once")
	}
	if len(fw.snaps) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(fw.snaps))
	}
	snap := fw.snaps[0]
	if snap.Encounter.Title != "Training Dummy" || snap.Encounter.ENCDPS != "1500" {
		t.Fatalf("unexpected summary: %+v", snap.Encounter)
	}
	if len(snap.Rows) != 2 || snap.Rows[0].Name != "Bob" {
		t.Fatalf("unexpected rows: %+v", snap.Rows)
	}
	if snap.EncounterID == "" {
		t.Fatal("missing encounter id")
	}
}

func TestWatcherOnce(t *testing.T) {
	fw := &fakeSnapshotWriter{}
	w := NewWatcher(Options{Once: true}, fw, nil, testLogger())

	// Unknown and LogLine events must not satisfy the one-shot condition.
	done, err := w.HandleEvent(decode(t, `{"type":"SomethingElse"}`), nil)
	if err != nil || done {
		t.Fatalf("unknown event: done=%v err=%v", done, err)
	}
	done, err = w.HandleEvent(decode(t, `{"type":"LogLine","line":"x"}`), nil)
	if err != nil || done {
		t.Fatalf("logline event: done=%v err=%v", done, err)
	}

	done, err = w.HandleEvent(decode(t, combatFrame), []byte(combatFrame))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !done {
		t.Fatal("expected stop after first CombatData")
	}
}

func TestWatcherLogLines(t *testing.T) {
	fw := &fakeSnapshotWriter{}
	lw := &fakeLogWriter{}
	w := NewWatcher(Options{}, fw, lw, testLogger())
	if _, err := w.HandleEvent(decode(t, `{"type":"LogLine","line":"hello"}`), nil); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(lw.lines) != 1 || lw.lines[0].Text != "hello" {
		t.Fatalf("unexpected log lines: %+v", lw.lines)
	}

	// Disabled log writer ignores LogLine events.
	w2 := NewWatcher(Options{}, fw, nil, testLogger())
	if _, err := w2.HandleEvent(decode(t, `{"type":"LogLine","line":"hello"}`), nil); err != nil {
		t.Fatalf("handle: %v", err)
	}
}

func TestWatcherSniff(t *testing.T) {
	out := &bytes.Buffer{}
	fw := &fakeSnapshotWriter{}
	w := NewWatcher(Options{Sniff: true}, fw, nil, testLogger())
	w.out = out
	done, err := w.HandleEvent(decode(t, combatFrame), []byte(combatFrame))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !done {
		t.Fatal("sniff should stop after first CombatData")
	}
	if len(fw.snaps) != 0 {
		t.Fatal("sniff must not render a snapshot")
	}
	if !strings.Contains(out.String(), "Encounter keys:") || !strings.Contains(out.String(), "encdps") {
		t.Fatalf("missing key dump: %q", out.String())
	}
}

func TestWatcherRawOnce(t *testing.T) {
	out := &bytes.Buffer{}
	w := NewWatcher(Options{RawOnce: true}, &fakeSnapshotWriter{}, nil, testLogger())
	w.out = out
	done, err := w.HandleEvent(decode(t, combatFrame), []byte(combatFrame))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !done {
		t.Fatal("raw-once should stop after first CombatData")
	}
	if !strings.Contains(out.String(), `"Training Dummy"`) {
		t.Fatalf("missing raw dump: %q", out.String())
	}
}

func TestWatcherEncounterIDRotation(t *testing.T) {
	fw := &fakeSnapshotWriter{}
	w := NewWatcher(Options{}, fw, nil, testLogger())
	w.now = func() time.Time { return time.Unix(0, 0) }

	first := `{"type":"CombatData","Encounter":{"title":"A","isActive":"true"}}`
	again := first
	other := `{"type":"CombatData","Encounter":{"title":"B","isActive":"true"}}`
	for _, raw := range []string{first, again, other} {
		if _, err := w.HandleEvent(decode(t, raw), []byte(raw)); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}
	if fw.snaps[0].EncounterID != fw.snaps[1].EncounterID {
		t.Fatal("same encounter should keep its id")
	}
	if fw.snaps[1].EncounterID == fw.snaps[2].EncounterID {
		t.Fatal("new title should rotate the id")
	}
}

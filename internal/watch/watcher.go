// Watcher turning inbound feed events into leaderboard output
package watch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"dpswatch/internal/combat"
)

// SnapshotWriter is an interface to support different leaderboard outputs.
type SnapshotWriter interface {
	WriteSnapshot(combat.Snapshot) error
}

// LogLineWriter handles raw log line events.
type LogLineWriter interface {
	WriteLogLine(combat.LogLine) error
}

// rawDumpLimit caps the --raw-once JSON dump.
const rawDumpLimit = 20000

// Options control per-session watcher behavior. They are fixed at startup.
type Options struct {
	Once      bool // stop after the first fully processed CombatData event
	Sniff     bool // dump raw key sets of the first CombatData event, then stop
	RawOnce   bool // dump the first CombatData event as raw JSON, then stop
	PartyOnly bool // drop combatants without a known job code
}

// Watcher consumes decoded events and drives the writers. It holds no state
// across events beyond the current encounter identity.
type Watcher struct {
	opts      Options
	writer    SnapshotWriter
	logWriter LogLineWriter // nil disables log line output
	logger    *slog.Logger
	out       io.Writer
	now       func() time.Time

	encounterID string
	lastTitle   string
	lastActive  bool
}

// NewWatcher creates a Watcher. logWriter may be nil to ignore LogLine
// events. Diagnostic dumps (sniff, raw-once) go to os.Stdout.
func NewWatcher(opts Options, writer SnapshotWriter, logWriter LogLineWriter, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		opts:      opts,
		writer:    writer,
		logWriter: logWriter,
		logger:    logger,
		out:       os.Stdout,
		now:       time.Now,
	}
}

// HandleEvent implements client.EventHandler. Events are processed strictly
// in arrival order; unknown event types are ignored.
func (w *Watcher) HandleEvent(ev *combat.Event, raw []byte) (bool, error) {
	switch ev.Type {
	case combat.EventCombatData:
		return w.handleCombatData(ev, raw)
	case combat.EventLogLine:
		if w.logWriter == nil {
			return false, nil
		}
		line := combat.LogLine{Text: ev.LogText(), Timestamp: w.now()}
		if err := w.logWriter.WriteLogLine(line); err != nil {
			return false, fmt.Errorf("write log line: %w", err)
		}
		return false, nil
	default:
		return false, nil
	}
}

func (w *Watcher) handleCombatData(ev *combat.Event, raw []byte) (bool, error) {
	if w.opts.RawOnce {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			buf.Reset()
			buf.Write(raw)
		}
		dump := buf.String()
		if len(dump) > rawDumpLimit {
			dump = dump[:rawDumpLimit]
		}
		fmt.Fprintln(w.out, dump)
		return true, nil
	}
	if w.opts.Sniff {
		fmt.Fprintf(w.out, "Encounter keys: %v\n", ev.EncounterKeys())
		fmt.Fprintf(w.out, "Combatant keys (example): %v\n", ev.CombatantKeys())
		return true, nil
	}

	summary := ev.Summary()
	w.rotateEncounterID(summary)
	snap := ev.BuildSnapshot(w.encounterID, w.opts.PartyOnly, w.now())
	if err := w.writer.WriteSnapshot(snap); err != nil {
		return false, fmt.Errorf("write snapshot: %w", err)
	}
	return w.opts.Once, nil
}

// rotateEncounterID stamps a fresh session ID when a new encounter begins:
// the title changes, or the active flag rises after a lull.
func (w *Watcher) rotateEncounterID(s combat.EncounterSummary) {
	fresh := w.encounterID == "" ||
		s.Title != w.lastTitle ||
		(s.Active && !w.lastActive)
	if fresh {
		w.encounterID = uuid.NewString()
		w.logger.Debug("new encounter", "id", w.encounterID, "title", s.Title)
	}
	w.lastTitle = s.Title
	w.lastActive = s.Active
}

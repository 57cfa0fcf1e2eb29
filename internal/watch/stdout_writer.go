// Writer implementation printing leaderboards to STDOUT
package watch

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/term"

	"dpswatch/internal/combat"
)

const (
	colorReset  = "\x1b[0m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
	colorGray   = "\x1b[90m"
)

// logLineLimit caps printed LogLine text.
const logLineLimit = 160

// StdoutWriter prints the encounter header and a fixed-width leaderboard
// table for every snapshot. The encounter header is colorized when the
// output is a terminal.
type StdoutWriter struct {
	out      io.Writer
	top      int
	colorize bool
}

// NewStdoutWriter creates a StdoutWriter on os.Stdout. top limits rendered
// rows; 0 disables truncation.
func NewStdoutWriter(top int) *StdoutWriter {
	return &StdoutWriter{
		out:      os.Stdout,
		top:      top,
		colorize: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// WriteSnapshot implements SnapshotWriter.
func (w *StdoutWriter) WriteSnapshot(snap combat.Snapshot) error {
	e := snap.Encounter
	if w.colorize {
		fmt.Fprintf(w.out, "\n=== Encounter: %s%s%s  Zone: %s%s%s  Duration: %s%s%s  ENCDPS: %s%s%s  Damage: %s%s%s ===\n",
			colorCyan, e.Title, colorReset,
			colorGreen, e.Zone, colorReset,
			colorGray, e.Duration, colorReset,
			colorYellow, e.ENCDPS, colorReset,
			colorYellow, e.Damage, colorReset)
	} else {
		fmt.Fprintf(w.out, "\n=== Encounter: %s  Zone: %s  Duration: %s  ENCDPS: %s  Damage: %s ===\n",
			e.Title, e.Zone, e.Duration, e.ENCDPS, e.Damage)
	}
	rows := combat.Top(snap.Rows, w.top)
	fmt.Fprintln(w.out, FormatTable(leaderboardHeaders, leaderboardCells(rows)))
	return nil
}

// WriteLogLine implements LogLineWriter.
func (w *StdoutWriter) WriteLogLine(line combat.LogLine) error {
	fmt.Fprintf(w.out, "[LogLine] %s\n", truncateLine(line.Text, logLineLimit))
	return nil
}

// truncateLine caps text at limit bytes without splitting a rune, marking
// the cut with an ellipsis.
func truncateLine(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

package watch

import (
	"fmt"
	"strings"

	"dpswatch/internal/combat"
)

// leaderboardHeaders are the base table columns.
var leaderboardHeaders = []string{"Name", "Job", "ENCDPS", "Crit%", "DH%", "Deaths"}

// FormatTable renders a fixed-width text table. Every column is as wide as
// its widest cell or its header, cells are left-justified and joined with
// " | ", and a dashed separator row follows the header.
func FormatTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for i, h := range headers {
		if i > 0 {
			b.WriteString(" | ")
		}
		fmt.Fprintf(&b, "%-*s", widths[i], h)
	}
	b.WriteByte('\n')
	for i := range headers {
		if i > 0 {
			b.WriteString("-+-")
		}
		b.WriteString(strings.Repeat("-", widths[i]))
	}
	for _, r := range rows {
		b.WriteByte('\n')
		for i := range headers {
			cell := ""
			if i < len(r) {
				cell = r[i]
			}
			if i > 0 {
				b.WriteString(" | ")
			}
			fmt.Fprintf(&b, "%-*s", widths[i], cell)
		}
	}
	return b.String()
}

// leaderboardCells flattens rows into the base table columns.
func leaderboardCells(rows []combat.CombatantRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Name, r.Job, r.DPSText, r.Crit, r.DirectHit, r.Deaths})
	}
	return out
}

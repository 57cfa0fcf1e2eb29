package watch

import (
	"strings"
	"testing"
)

func TestFormatTableAlignment(t *testing.T) {
	out := FormatTable([]string{"Name", "DPS"}, [][]string{
		{"Alice", "12.3"},
		{"Bob", "5"},
	})
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "Name  | DPS " {
		t.Fatalf("unexpected header row: %q", lines[0])
	}
	if lines[1] != "------+-----" {
		t.Fatalf("unexpected separator row: %q", lines[1])
	}
	want := len(lines[0])
	for i, l := range lines {
		if len(l) != want {
			t.Fatalf("line %d has width %d, want %d: %q", i, len(l), want, l)
		}
	}
	if lines[2] != "Alice | 12.3" || lines[3] != "Bob   | 5   " {
		t.Fatalf("unexpected data rows: %q, %q", lines[2], lines[3])
	}
}

func TestFormatTableHeaderDominatesWidth(t *testing.T) {
	out := FormatTable([]string{"LongHeader"}, [][]string{{"x"}})
	lines := strings.Split(out, "\n")
	if lines[2] != "x         " {
		t.Fatalf("cell not padded to header width: %q", lines[2])
	}
}

func TestFormatTableShortRows(t *testing.T) {
	// Rows with fewer cells than headers render empty padded cells.
	out := FormatTable([]string{"A", "B"}, [][]string{{"1"}})
	lines := strings.Split(out, "\n")
	if lines[2] != "1 |  " {
		t.Fatalf("unexpected row: %q", lines[2])
	}
}

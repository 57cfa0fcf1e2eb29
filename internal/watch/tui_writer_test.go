package watch

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dpswatch/internal/combat"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestTUIWriterMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}
	if err := w.WriteSnapshot(snapshotFixture()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, ok := p.msgs[0].(snapshotMsg); !ok {
		t.Fatalf("expected snapshotMsg, got %T", p.msgs[0])
	}
	long := strings.Repeat("y", 300)
	if err := w.WriteLogLine(combat.LogLine{Text: long, Timestamp: time.Unix(0, 0).UTC()}); err != nil {
		t.Fatalf("log line: %v", err)
	}
	lm, ok := p.msgs[1].(logMsg)
	if !ok {
		t.Fatalf("expected logMsg, got %T", p.msgs[1])
	}
	if !strings.HasSuffix(lm.line, "...") {
		t.Fatalf("log line not truncated: %q", lm.line)
	}
}

func TestTUIModelSnapshot(t *testing.T) {
	m := newTUIModel(2)
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m = mi.(tuiModel)
	mi, _ = m.Update(snapshotMsg{snapshotFixture()})
	m = mi.(tuiModel)
	view := m.View()
	if !strings.Contains(view, "Training Dummy") {
		t.Fatalf("header missing encounter title:\n%s", view)
	}
	if !strings.Contains(view, "Bob") || !strings.Contains(view, "Alice") {
		t.Fatalf("leaderboard rows missing:\n%s", view)
	}
	if strings.Contains(view, "Carol") {
		t.Fatalf("expected top-2 truncation:\n%s", view)
	}
}

func TestTUIModelLogAndToggles(t *testing.T) {
	m := newTUIModel(0)
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 24})
	m = mi.(tuiModel)
	mi, _ = m.Update(logMsg{line: "one two three"})
	m = mi.(tuiModel)
	if !strings.Contains(m.vp.View(), "one two three") {
		t.Fatalf("log line not in viewport: %q", m.vp.View())
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	m = mi.(tuiModel)
	if !m.wrap {
		t.Fatal("wrap not toggled")
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = mi.(tuiModel)
	if m.autoscroll {
		t.Fatal("autoscroll not toggled off")
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

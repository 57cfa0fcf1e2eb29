package watch

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"dpswatch/internal/combat"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// snapshotMsg carries a new leaderboard snapshot.
type snapshotMsg struct{ combat.Snapshot }

// logMsg carries a log line for the viewport.
type logMsg struct{ line string }

const maxLogLines = 200

// TUIWriter renders snapshots in an alternate-screen bubbletea UI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter. top
// limits leaderboard rows; 0 disables truncation. When the user quits the
// UI, the process receives an interrupt so the watch loop stops too.
func NewTUIWriter(top int) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newTUIModel(top)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteSnapshot implements SnapshotWriter.
func (w *TUIWriter) WriteSnapshot(snap combat.Snapshot) error {
	w.program.Send(snapshotMsg{snap})
	return nil
}

// WriteLogLine implements LogLineWriter.
func (w *TUIWriter) WriteLogLine(line combat.LogLine) error {
	text := truncateLine(line.Text, logLineLimit)
	w.program.Send(logMsg{line: fmt.Sprintf("[%s] %s", line.Timestamp.Format("15:04:05"), text)})
	return nil
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type tuiModel struct {
	top        int
	table      table.Model
	vp         viewport.Model
	logs       []string
	snap       combat.Snapshot
	haveSnap   bool
	wrap       bool
	autoscroll bool
	width      int
	height     int
}

func newTUIModel(top int) tuiModel {
	cols := []table.Column{
		{Title: "Name", Width: 22},
		{Title: "Job", Width: 4},
		{Title: "ENCDPS", Width: 10},
		{Title: "Share", Width: 6},
		{Title: "Crit%", Width: 6},
		{Title: "DH%", Width: 6},
		{Title: "Deaths", Width: 6},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(9))
	return tuiModel{
		top:        top,
		table:      t,
		vp:         viewport.New(0, 0),
		autoscroll: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.updateViewportHeight()
		m.refreshViewport()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
		case "s":
			m.autoscroll = !m.autoscroll
		case "up", "k":
			m.vp.SetYOffset(m.vp.YOffset - 1)
		case "down", "j":
			m.vp.SetYOffset(m.vp.YOffset + 1)
		}
	case snapshotMsg:
		m.snap = msg.Snapshot
		m.haveSnap = true
		rows := combat.Top(m.snap.Rows, m.top)
		trows := make([]table.Row, 0, len(rows))
		for _, r := range rows {
			trows = append(trows, table.Row{
				r.Name, r.Job, r.DPSText,
				fmt.Sprintf("%.1f%%", r.Share*100),
				r.Crit, r.DirectHit, r.Deaths,
			})
		}
		m.table.SetRows(trows)
		m.table.SetHeight(len(trows) + 1)
		m.updateViewportHeight()
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	}
	return m, nil
}

func (m *tuiModel) updateViewportHeight() {
	used := lipgloss.Height(m.headerView()) + m.table.Height() + 4
	h := m.height - used
	if h < 3 {
		h = 3
	}
	m.vp.Height = h
}

func (m *tuiModel) refreshViewport() {
	lines := m.logs
	if m.wrap && m.vp.Width > 0 {
		wrapped := make([]string, 0, len(lines))
		for _, l := range lines {
			wrapped = append(wrapped, wordwrap.String(l, m.vp.Width))
		}
		lines = wrapped
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) headerView() string {
	if !m.haveSnap {
		return headerStyle.Render("dpswatch") + "\n" +
			summaryStyle.Render("waiting for combat data...")
	}
	e := m.snap.Encounter
	title := e.Title
	if title == "" {
		title = "(no encounter)"
	}
	status := "idle"
	if e.Active {
		status = "active"
	}
	summary := fmt.Sprintf("Zone: %s  Duration: %s  ENCDPS: %s  Damage: %s  [%s]  %s",
		e.Zone, e.Duration, e.ENCDPS, e.Damage, status,
		m.snap.Timestamp.Format(time.Kitchen))
	return headerStyle.Render(title) + "\n" + summaryStyle.Render(summary)
}

func (m tuiModel) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteByte('\n')
	b.WriteString(m.table.View())
	b.WriteByte('\n')
	b.WriteString(sectionStyle.Render("Log"))
	b.WriteByte('\n')
	b.WriteString(m.vp.View())
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render("q quit  w wrap  s autoscroll  ↑/↓ scroll"))
	return b.String()
}

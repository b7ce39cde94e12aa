// Package tui renders live batch progress with a bubbletea program. It
// implements dispatch.Observer; worker events are forwarded to the model
// as messages.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"mapfbench/internal/dispatch"
	"mapfbench/internal/job"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

type batchMsg struct{ total int }
type startMsg struct{ name string }
type finishMsg struct {
	name    string
	outcome dispatch.Outcome
}
type doneMsg struct{}

// Writer drives the progress TUI. If the user quits the TUI while the
// batch is still running, cancel is invoked so in-flight solvers are
// stopped.
type Writer struct {
	program teaProgram
	cancel  func()
	done    chan struct{}
}

// New starts the TUI program. cancel may be nil.
func New(cancel func()) *Writer {
	w := &Writer{cancel: cancel, done: make(chan struct{})}
	p := tea.NewProgram(newModel(), tea.WithAltScreen())
	w.program = p
	go func() {
		defer close(w.done)
		if _, err := p.Run(); err == nil && w.cancel != nil {
			w.cancel()
		}
	}()
	return w
}

// Wait blocks until the TUI program has shut down and the terminal is
// restored.
func (w *Writer) Wait() {
	<-w.done
}

// BatchStarted implements dispatch.Observer.
func (w *Writer) BatchStarted(total int) { w.program.Send(batchMsg{total: total}) }

// JobStarted implements dispatch.Observer.
func (w *Writer) JobStarted(j job.Job) { w.program.Send(startMsg{name: j.Name}) }

// JobFinished implements dispatch.Observer.
func (w *Writer) JobFinished(j job.Job, o dispatch.Outcome) {
	w.program.Send(finishMsg{name: j.Name, outcome: o})
}

// BatchFinished implements dispatch.Observer.
func (w *Writer) BatchFinished() { w.program.Send(doneMsg{}) }

const maxRecent = 12

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type model struct {
	total     int
	finished  int
	completed int
	timedOut  int
	running   map[string]bool
	recent    []string
	bar       progress.Model
	width     int
	batchDone bool
}

func newModel() model {
	return model{
		running: map[string]bool{},
		bar:     progress.New(progress.WithDefaultGradient()),
		width:   80,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 6
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case batchMsg:
		m.total = msg.total
	case startMsg:
		m.running[msg.name] = true
	case finishMsg:
		delete(m.running, msg.name)
		m.finished++
		line := fmt.Sprintf("%s (%s)", msg.name, msg.outcome.Duration.Round(time.Millisecond))
		switch {
		case msg.outcome.Completed:
			m.completed++
			line = okStyle.Render("done    ") + line
		case msg.outcome.TimedOut:
			m.timedOut++
			line = failStyle.Render("timeout ") + line
		default:
			line = failStyle.Render("failed  ") + line
		}
		m.recent = append(m.recent, line)
		if len(m.recent) > maxRecent {
			m.recent = m.recent[len(m.recent)-maxRecent:]
		}
	case doneMsg:
		m.batchDone = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	var frac float64
	if m.total > 0 {
		frac = float64(m.finished) / float64(m.total)
	}
	s := titleStyle.Render("mapfbench") + "\n\n"
	s += "  " + m.bar.ViewAs(frac) + "\n\n"
	s += fmt.Sprintf("  %d/%d finished   %s   %s\n\n",
		m.finished, m.total,
		okStyle.Render(fmt.Sprintf("%d completed", m.completed)),
		failStyle.Render(fmt.Sprintf("%d timed out", m.timedOut)))

	for name := range m.running {
		s += runningStyle.Render("  > "+name) + "\n"
	}
	if len(m.running) > 0 {
		s += "\n"
	}
	for _, line := range m.recent {
		s += wordwrap.String("  "+line, m.width) + "\n"
	}
	s += dimStyle.Render("\n  q to abort")
	return s
}

package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mapfbench/internal/dispatch"
	"mapfbench/internal/job"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestWriterForwardsEvents(t *testing.T) {
	p := &fakeProgram{}
	w := &Writer{program: p, done: make(chan struct{})}

	w.BatchStarted(3)
	w.JobStarted(job.Job{Name: "maze"})
	w.JobFinished(job.Job{Name: "maze"}, dispatch.Outcome{Completed: true})
	w.BatchFinished()

	wantTypes := []tea.Msg{batchMsg{}, startMsg{}, finishMsg{}, doneMsg{}}
	if len(p.msgs) != len(wantTypes) {
		t.Fatalf("messages = %d, want %d", len(p.msgs), len(wantTypes))
	}
	if got := p.msgs[0].(batchMsg); got.total != 3 {
		t.Fatalf("batch total = %d", got.total)
	}
	if _, ok := p.msgs[1].(startMsg); !ok {
		t.Fatalf("expected startMsg, got %T", p.msgs[1])
	}
	if got := p.msgs[2].(finishMsg); !got.outcome.Completed {
		t.Fatalf("finish outcome = %+v", got.outcome)
	}
	if _, ok := p.msgs[3].(doneMsg); !ok {
		t.Fatalf("expected doneMsg, got %T", p.msgs[3])
	}
}

func TestModelCountsOutcomes(t *testing.T) {
	m := newModel()
	mi, _ := m.Update(batchMsg{total: 2})
	m = mi.(model)
	mi, _ = m.Update(startMsg{name: "a"})
	m = mi.(model)
	mi, _ = m.Update(finishMsg{name: "a", outcome: dispatch.Outcome{Completed: true, Duration: time.Second}})
	m = mi.(model)
	mi, _ = m.Update(finishMsg{name: "b", outcome: dispatch.Outcome{TimedOut: true}})
	m = mi.(model)

	if m.finished != 2 || m.completed != 1 || m.timedOut != 1 {
		t.Fatalf("counts = %+v", m)
	}
	if len(m.running) != 0 {
		t.Fatalf("running = %v", m.running)
	}
	view := m.View()
	if !strings.Contains(view, "2/2 finished") {
		t.Fatalf("view missing progress summary:\n%s", view)
	}
}

func TestModelQuitsWhenBatchDone(t *testing.T) {
	m := newModel()
	_, cmd := m.Update(doneMsg{})
	if cmd == nil {
		t.Fatal("expected quit command on doneMsg")
	}
}

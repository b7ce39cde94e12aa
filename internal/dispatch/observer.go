package dispatch

import (
	"time"

	"mapfbench/internal/job"
)

// Outcome summarizes one finished job for observers.
type Outcome struct {
	Completed bool
	TimedOut  bool
	Duration  time.Duration
}

// Observer receives batch progress events. Implementations include the
// TUI progress view and the GreptimeDB metrics exporter; all methods are
// called from worker goroutines and must be safe for concurrent use.
type Observer interface {
	BatchStarted(total int)
	JobStarted(j job.Job)
	JobFinished(j job.Job, o Outcome)
	BatchFinished()
}

type multiObserver []Observer

// Observers fans events out to every given observer in order.
func Observers(obs ...Observer) Observer {
	return multiObserver(obs)
}

func (m multiObserver) BatchStarted(total int) {
	for _, o := range m {
		o.BatchStarted(total)
	}
}

func (m multiObserver) JobStarted(j job.Job) {
	for _, o := range m {
		o.JobStarted(j)
	}
}

func (m multiObserver) JobFinished(j job.Job, out Outcome) {
	for _, o := range m {
		o.JobFinished(j, out)
	}
}

func (m multiObserver) BatchFinished() {
	for _, o := range m {
		o.BatchFinished()
	}
}

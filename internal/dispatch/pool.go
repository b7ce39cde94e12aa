// Package dispatch runs solver jobs through a bounded pool of workers,
// each job an external process with an optional wall-clock timeout.
package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"

	"mapfbench/internal/job"
	"mapfbench/internal/result"
)

// graceDelay bounds how long a worker waits for a killed solver to
// release its stdout pipe before giving up on it.
const graceDelay = 5 * time.Second

// Config sizes one batch. Zero Workers means one; zero Timeout means
// jobs run unbounded.
type Config struct {
	Workers int
	Timeout time.Duration
}

// Pool executes job batches. A Pool holds no cross-batch state; each Run
// owns its queue, so independent batches can run side by side.
type Pool struct {
	cfg Config
	log *slog.Logger
	obs Observer
}

// New returns a pool with the given concurrency settings. Observers are
// fanned out in order.
func New(cfg Config, log *slog.Logger, obs ...Observer) *Pool {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pool{cfg: cfg, log: log, obs: Observers(obs...)}
}

// Run executes every job and returns once all of them have reached a
// terminal state with a persisted record. Job failures and timeouts are
// isolated; only spawn and write failures abort the batch. Cancelling ctx
// stops queue consumption and kills in-flight solvers.
func (p *Pool) Run(ctx context.Context, jobs []job.Job) error {
	log := p.log.With("batch", uuid.New().String())
	log.Info("dispatching jobs", "jobs", len(jobs), "workers", p.cfg.Workers, "timeout", p.cfg.Timeout)
	p.obs.BatchStarted(len(jobs))
	defer p.obs.BatchFinished()

	queue := make(chan job.Job, len(jobs))
	for _, j := range jobs {
		queue <- j
	}
	close(queue)

	rctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		fatal error
		once  sync.Once
		wg    sync.WaitGroup
	)
	fail := func(err error) {
		once.Do(func() {
			fatal = err
			cancel()
		})
	}

	for w := 0; w < p.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				if rctx.Err() != nil {
					continue
				}
				if err := p.runJob(rctx, log, j); err != nil {
					fail(err)
				}
			}
		}()
	}
	wg.Wait()

	if fatal != nil {
		return fatal
	}
	return ctx.Err()
}

func (p *Pool) runJob(ctx context.Context, log *slog.Logger, j job.Job) error {
	log = log.With("job", j.Name)
	log.Info("running")
	p.obs.JobStarted(j)

	start := time.Now()
	jctx := ctx
	cancel := context.CancelFunc(func() {})
	if p.cfg.Timeout > 0 {
		jctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
	}
	defer cancel()

	cmd := exec.CommandContext(jctx, j.Command[0], j.Command[1:]...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return terminate(cmd) }
	cmd.WaitDelay = graceDelay

	runErr := cmd.Run()
	killed := jctx.Err() != nil
	timedOut := errors.Is(jctx.Err(), context.DeadlineExceeded)

	outcome := Outcome{TimedOut: timedOut, Duration: time.Since(start)}
	var doc result.Document
	switch {
	case timedOut:
		log.Warn("timed out", "after", p.cfg.Timeout)
	case killed:
		log.Warn("cancelled")
	case runErr != nil && !isExitError(runErr):
		// The solver binary could not be started at all; every remaining
		// job would fail the same way, so the batch aborts.
		return fmt.Errorf("spawn solver: %w", runErr)
	default:
		// A non-zero exit is not special on its own; whatever the solver
		// managed to print decides. Undecodable output fails only this
		// job.
		d, err := result.Decode(stdout.Bytes())
		if err != nil {
			log.Warn("discarding solver output", "error", err)
		} else {
			doc = d
			outcome.Completed = true
		}
	}

	rec := result.Record{MapInfo: j.MapInfo, Result: doc, Completed: outcome.Completed}
	if err := result.WriteFile(j.ResultPath, rec); err != nil {
		return err
	}

	if outcome.Completed {
		log.Info("done", "duration", outcome.Duration.Round(time.Millisecond))
	}
	p.obs.JobFinished(j, outcome)
	return nil
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

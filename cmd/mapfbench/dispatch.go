package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mapfbench/internal/dispatch"
	"mapfbench/internal/job"
	"mapfbench/internal/logging"
	"mapfbench/internal/metrics"
	"mapfbench/internal/tui"
)

// newLogger builds the command logger. With the TUI active the alternate
// screen owns the terminal, so log lines are dropped.
func newLogger(tuiEnabled bool) *slog.Logger {
	if tuiEnabled {
		return logging.NewWithWriter(io.Discard, false)
	}
	return logging.New(verbose)
}

// dispatchJobs wires up observers and runs one batch to completion.
// SIGINT/SIGTERM cancel the batch: workers stop pulling jobs and in-flight
// solvers are killed.
func dispatchJobs(log *slog.Logger, jobs []job.Job, workers int, timeout time.Duration, withTUI bool, metricsEndpoint, metricsDB string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var observers []dispatch.Observer
	var progress *tui.Writer
	if withTUI {
		progress = tui.New(cancel)
		observers = append(observers, progress)
	}
	if metricsEndpoint != "" {
		mw, err := metrics.NewGreptimeWriter(metricsEndpoint, metricsDB, log)
		if err != nil {
			return err
		}
		observers = append(observers, mw)
	}

	pool := dispatch.New(dispatch.Config{Workers: workers, Timeout: timeout}, log, observers...)
	err := pool.Run(ctx, jobs)
	if progress != nil {
		progress.Wait()
	}
	return err
}

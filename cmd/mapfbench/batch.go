package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mapfbench/internal/config"
	"mapfbench/internal/experiment"
	"mapfbench/internal/job"
)

var (
	batchConfigPath string
	batchSchemaPath string
	batchWorkers    int
	batchTimeout    time.Duration
	batchDry        bool
	batchTUI        bool
	batchMetrics    string
	batchMetricsDB  string
)

var batchCmd = &cobra.Command{
	Use:   "batch <maps-dir> <scenarios-dir> -- <solver args...>",
	Short: "Run every sweep from a batch config",
	Long: `batch reads a YAML sweep configuration (validated against a CUE schema),
materializes scenarios for every sweep and dispatches all jobs through one
worker pool. Worker count and timeout from the config can be overridden on
the command line.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mapsDir, scenariosDir, solver, err := splitSolverArgs(cmd, args)
		if err != nil {
			return err
		}
		if !batchDry && len(solver) == 0 {
			return fmt.Errorf("no solver command given; pass it after --")
		}

		cfg, err := config.Load(batchConfigPath, batchSchemaPath)
		if err != nil {
			return err
		}
		workers := cfg.Workers
		if cmd.Flags().Changed("workers") {
			workers = batchWorkers
		}
		timeout, err := cfg.TimeoutDuration()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("timeout") {
			timeout = batchTimeout
		}

		log := newLogger(batchTUI)
		var jobs []job.Job
		for _, sweep := range cfg.Sweeps {
			log.Info("building sweep", "sweep", sweep.Label())
			sweepJobs, err := experiment.BuildJobs(log, experiment.Params{
				MapsDir:        mapsDir,
				ScenariosDir:   scenariosDir,
				Agents:         sweep.Agents,
				ObstacleProb:   sweep.ObstacleProb,
				SolverTemplate: solver,
			})
			if err != nil {
				return err
			}
			jobs = append(jobs, sweepJobs...)
		}
		if batchDry {
			log.Info("dry run: scenarios written, nothing dispatched", "jobs", len(jobs))
			return nil
		}

		return dispatchJobs(log, jobs, workers, timeout, batchTUI, batchMetrics, batchMetricsDB)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchConfigPath, "config", "config/experiments.yaml", "Path to sweep configuration YAML")
	batchCmd.Flags().StringVar(&batchSchemaPath, "schema", "schemas/experiments.cue", "Path to CUE schema file")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 1, "Concurrent solver processes (overrides config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 0, "Per-job solver timeout (overrides config)")
	batchCmd.Flags().BoolVar(&batchDry, "dry", false, "Build scenarios and jobs without dispatching")
	batchCmd.Flags().BoolVar(&batchTUI, "tui", false, "Show live progress in a TUI")
	batchCmd.Flags().StringVar(&batchMetrics, "metrics-endpoint", "", "GreptimeDB endpoint for job metrics export (optional)")
	batchCmd.Flags().StringVar(&batchMetricsDB, "metrics-db", "public", "GreptimeDB database for job metrics")
}

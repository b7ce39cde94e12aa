package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mapfbench/internal/experiment"
)

var (
	runAgents    int
	runObstacles float64
	runTimeout   time.Duration
	runWorkers   int
	runDry       bool
	runTUI       bool
	runMetrics   string
	runMetricsDB string
)

var runCmd = &cobra.Command{
	Use:   "run <maps-dir> <scenarios-dir> -- <solver args...>",
	Short: "Run one experiment sweep against a solver",
	Long: `run materializes a scenario for every eligible map in <maps-dir>, then
invokes the solver once per scenario under a bounded worker pool. Any "{}"
token in the solver arguments is replaced with the scenario path. One
result record is written next to each scenario, timeouts included.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mapsDir, scenariosDir, solver, err := splitSolverArgs(cmd, args)
		if err != nil {
			return err
		}
		if !runDry && len(solver) == 0 {
			return fmt.Errorf("no solver command given; pass it after --")
		}

		log := newLogger(runTUI)
		jobs, err := experiment.BuildJobs(log, experiment.Params{
			MapsDir:        mapsDir,
			ScenariosDir:   scenariosDir,
			Agents:         runAgents,
			ObstacleProb:   runObstacles,
			SolverTemplate: solver,
		})
		if err != nil {
			return err
		}
		if runDry {
			log.Info("dry run: scenarios written, nothing dispatched", "jobs", len(jobs))
			return nil
		}

		return dispatchJobs(log, jobs, runWorkers, runTimeout, runTUI, runMetrics, runMetricsDB)
	},
}

func init() {
	runCmd.Flags().IntVar(&runAgents, "agents", 100, "Number of agents to place")
	runCmd.Flags().Float64Var(&runObstacles, "obstacles", 0.05, "Probability of a tile holding an obstacle")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Per-job solver timeout (0 = unbounded)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 1, "Concurrent solver processes")
	runCmd.Flags().BoolVar(&runDry, "dry", false, "Build scenarios and jobs without dispatching")
	runCmd.Flags().BoolVar(&runTUI, "tui", false, "Show live progress in a TUI")
	runCmd.Flags().StringVar(&runMetrics, "metrics-endpoint", "", "GreptimeDB endpoint for job metrics export (optional)")
	runCmd.Flags().StringVar(&runMetricsDB, "metrics-db", "public", "GreptimeDB database for job metrics")
}

// Package experiment materializes scenarios for a map set and builds the
// solver jobs for one sweep. Construction is fully synchronous: every
// skip decision is made before any job is dispatched.
package experiment

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"mapfbench/internal/config"
	"mapfbench/internal/job"
	"mapfbench/internal/mapinfo"
	"mapfbench/internal/scenario"
)

// Params describes one sweep over a maps directory.
type Params struct {
	MapsDir      string
	ScenariosDir string
	Agents       int
	ObstacleProb float64
	// SolverTemplate is the solver argument vector; "{}" tokens are
	// replaced with the scenario path.
	SolverTemplate []string
}

// BuildJobs scans the maps directory, writes a scenario file for every
// eligible map under <ScenariosDir>/<conf>/ and returns one job per
// scenario. Ineligible maps are logged and produce neither a scenario nor
// a job.
func BuildJobs(log *slog.Logger, p Params) ([]job.Job, error) {
	confName := config.Sweep{Agents: p.Agents, ObstacleProb: p.ObstacleProb}.DirName()
	scenarioDir := filepath.Join(p.ScenariosDir, confName)
	if err := os.MkdirAll(scenarioDir, 0o755); err != nil {
		return nil, fmt.Errorf("create scenario dir: %w", err)
	}

	entries, err := mapinfo.Discover(p.MapsDir)
	if err != nil {
		return nil, err
	}

	var jobs []job.Job
	for _, e := range entries {
		if e.MapMissing {
			log.Warn("no matching map file", "map", e.Name)
			continue
		}
		if reason := scenario.SkipReason(e.Info); reason != "" {
			log.Info("skipping map", "map", e.Name, "reason", reason)
			continue
		}

		_, scenarioPath, err := scenario.Materialize(e.Info, e.MapPath, p.Agents, p.ObstacleProb, scenarioDir)
		if err != nil {
			return nil, fmt.Errorf("materialize scenario for %s: %w", e.Name, err)
		}

		absScenario, err := filepath.Abs(scenarioPath)
		if err != nil {
			return nil, err
		}
		resultPath := filepath.Join(scenarioDir, e.Name+".result.json")
		name := e.Name + " " + confName
		jobs = append(jobs, job.Build(name, p.SolverTemplate, absScenario, resultPath, e.Info))
	}
	return jobs, nil
}

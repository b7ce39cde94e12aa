package experiment

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mapfbench/internal/logging"
)

func writeMaps(t *testing.T, dir string, maps map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, info := range maps {
		if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(info), 0o644); err != nil {
			t.Fatal(err)
		}
		if info != "" {
			if err := os.WriteFile(filepath.Join(dir, name+".map"), nil, 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestBuildJobs(t *testing.T) {
	root := t.TempDir()
	mapsDir := filepath.Join(root, "maps")
	scenariosDir := filepath.Join(root, "scenarios")
	writeMaps(t, mapsDir, map[string]string{
		"open":     `{"passable_tiles": 400, "connected": true}`,
		"island":   `{"passable_tiles": 400, "connected": false}`,
		"enormous": `{"passable_tiles": 30000, "connected": true}`,
	})
	// Metadata without a map file.
	if err := os.WriteFile(filepath.Join(mapsDir, "orphan.json"), []byte(`{"passable_tiles": 1, "connected": true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	log := logging.NewWithWriter(io.Discard, false)
	jobs, err := BuildJobs(log, Params{
		MapsDir:        mapsDir,
		ScenariosDir:   scenariosDir,
		Agents:         100,
		ObstacleProb:   0.05,
		SolverTemplate: []string{"solver", "--scenario", "{}"},
	})
	if err != nil {
		t.Fatalf("BuildJobs: %v", err)
	}

	// Only the eligible map yields a job; skips have no side effects.
	if len(jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(jobs))
	}
	j := jobs[0]
	if j.Name != "open 100-agents-0.05-obst" {
		t.Fatalf("job name = %s", j.Name)
	}

	confDir := filepath.Join(scenariosDir, "100-agents-0.05-obst")
	scenarioPath := filepath.Join(confDir, "open.json")
	if _, err := os.Stat(scenarioPath); err != nil {
		t.Fatalf("scenario not written: %v", err)
	}
	if j.ResultPath != filepath.Join(confDir, "open.result.json") {
		t.Fatalf("result path = %s", j.ResultPath)
	}

	// The scenario path is substituted absolute.
	sub := j.Command[2]
	if !filepath.IsAbs(sub) || !strings.HasSuffix(sub, "open.json") {
		t.Fatalf("substituted path = %s", sub)
	}

	// No scenario files for the skipped maps.
	matches, _ := filepath.Glob(filepath.Join(confDir, "*.json"))
	if len(matches) != 1 {
		t.Fatalf("unexpected scenario files: %v", matches)
	}
}

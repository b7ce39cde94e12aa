// Package scenario materializes solver input scenarios from map metadata.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mapfbench/internal/mapinfo"
)

// Maps with more passable tiles than this are skipped: solver runs on them
// take too long to be useful data points.
const MaxPassableTiles = 20000

// Obstacle movement speed is drawn from a normal distribution with these
// parameters (mean, stddev), matching the solver's expected model.
var moveProbabilityParams = []float64{5, 1}

// Distribution names a probability distribution and its parameters.
type Distribution struct {
	Distribution string    `json:"distribution"`
	Parameters   []float64 `json:"parameters"`
}

// ObstacleMovement describes the stochastic movement model for obstacles.
type ObstacleMovement struct {
	MoveProbability Distribution `json:"move_probability"`
}

// Obstacles configures random per-tile obstacle placement.
type Obstacles struct {
	Mode             string           `json:"mode"`
	TileProbability  float64          `json:"tile_probability"`
	ObstacleMovement ObstacleMovement `json:"obstacle_movement"`
}

// AgentSettings configures random agent placement.
type AgentSettings struct {
	RandomAgents int `json:"random_agents"`
}

// Scenario is the generated solver input descriptor. Map is stored
// relative to the scenario file's own directory so the whole tree can be
// relocated. Agents is reserved for explicit placement and always empty
// for generated scenarios.
type Scenario struct {
	Map           string        `json:"map"`
	Obstacles     Obstacles     `json:"obstacles"`
	AgentSettings AgentSettings `json:"agent_settings"`
	Agents        []any         `json:"agents"`
}

// SkipReason reports why no scenario should be generated for a map, or ""
// when the map is eligible.
func SkipReason(info mapinfo.Info) string {
	if !info.Connected {
		return "map not connected"
	}
	if info.PassableTiles > MaxPassableTiles {
		return fmt.Sprintf("map too large (%d passable tiles)", info.PassableTiles)
	}
	return ""
}

// New builds a scenario descriptor. relMapPath must already be relative to
// the directory the scenario will be written to. The agent count is capped
// at the map's passable tile count.
func New(info mapinfo.Info, relMapPath string, agents int, obstacleProb float64) *Scenario {
	if agents > info.PassableTiles {
		agents = info.PassableTiles
	}
	return &Scenario{
		Map: relMapPath,
		Obstacles: Obstacles{
			Mode:            "random",
			TileProbability: obstacleProb,
			ObstacleMovement: ObstacleMovement{
				MoveProbability: Distribution{
					Distribution: "normal",
					Parameters:   moveProbabilityParams,
				},
			},
		},
		AgentSettings: AgentSettings{RandomAgents: agents},
		Agents:        []any{},
	}
}

// Materialize generates the scenario for one map and writes it into
// outDir as <map base name>.json. It returns (nil, "", nil) when the map
// is ineligible; callers that want the reason use SkipReason.
func Materialize(info mapinfo.Info, mapPath string, agents int, obstacleProb float64, outDir string) (*Scenario, string, error) {
	if SkipReason(info) != "" {
		return nil, "", nil
	}

	relMap, err := RelPath(mapPath, outDir)
	if err != nil {
		return nil, "", err
	}
	sc := New(info, relMap, agents, obstacleProb)

	base := filepath.Base(mapPath)
	name := base[:len(base)-len(filepath.Ext(base))] + ".json"
	path := filepath.Join(outDir, name)
	if err := writeJSON(path, sc); err != nil {
		return nil, "", err
	}
	return sc, path, nil
}

// RelPath expresses target relative to the directory base, resolving both
// to absolute paths first so the result survives tree relocation.
func RelPath(target, base string) (string, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil {
		return "", fmt.Errorf("relativize %s against %s: %w", target, base, err)
	}
	return rel, nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

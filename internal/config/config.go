// YAML sweep config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Sweep is one (agent count, obstacle probability) experiment
// configuration within a batch.
type Sweep struct {
	Name         string  `yaml:"name,omitempty"`
	Agents       int     `yaml:"agents"`
	ObstacleProb float64 `yaml:"obstacle_probability"`
}

// DirName returns the scenario/result directory name for the sweep, e.g.
// "500-agents-0.05-obst". The aggregator parses agent and obstacle
// buckets back out of this form.
func (s Sweep) DirName() string {
	return fmt.Sprintf("%d-agents-%s-obst", s.Agents, strconv.FormatFloat(s.ObstacleProb, 'g', -1, 64))
}

// Label returns the sweep's display name.
func (s Sweep) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.DirName()
}

// Batch is the root configuration for an experiment sweep run.
type Batch struct {
	Workers int     `yaml:"workers,omitempty"`
	Timeout string  `yaml:"timeout,omitempty"`
	Sweeps  []Sweep `yaml:"sweeps"`
}

// TimeoutDuration parses the configured per-job timeout; empty means
// unbounded.
func (b *Batch) TimeoutDuration() (time.Duration, error) {
	if b.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(b.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", b.Timeout, err)
	}
	return d, nil
}

// Load loads a YAML batch config, validating it against a CUE schema
// first. An empty schema path skips CUE validation.
func Load(configPath, cueSchemaPath string) (*Batch, error) {
	if cueSchemaPath != "" {
		if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var b Batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, err
	}

	if len(b.Sweeps) == 0 {
		return nil, fmt.Errorf("config %s defines no sweeps", configPath)
	}
	for _, s := range b.Sweeps {
		if s.Agents <= 0 {
			return nil, fmt.Errorf("sweep %s: agents must be positive", s.Label())
		}
		if s.ObstacleProb < 0 || s.ObstacleProb > 1 {
			return nil, fmt.Errorf("sweep %s: obstacle probability %v outside [0,1]", s.Label(), s.ObstacleProb)
		}
	}
	return &b, nil
}

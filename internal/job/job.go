// Package job builds concrete solver invocations from scenarios.
package job

import (
	"mapfbench/internal/mapinfo"
)

// Placeholder is the command-template token replaced by the scenario path.
const Placeholder = "{}"

// Job is one executable solver invocation. Command is the full argument
// vector including the executable; ResultPath is where the result record
// will be written. MapInfo is echoed into the record untouched.
type Job struct {
	Name       string
	Command    []string
	ResultPath string
	MapInfo    mapinfo.Info
}

// Substitute replaces every Placeholder token in template with
// scenarioPath, leaving all other tokens unchanged. The template is not
// modified.
func Substitute(template []string, scenarioPath string) []string {
	args := make([]string, len(template))
	for i, a := range template {
		if a == Placeholder {
			args[i] = scenarioPath
		} else {
			args[i] = a
		}
	}
	return args
}

// Build binds a command template to one scenario.
func Build(name string, template []string, scenarioPath, resultPath string, info mapinfo.Info) Job {
	return Job{
		Name:       name,
		Command:    Substitute(template, scenarioPath),
		ResultPath: resultPath,
		MapInfo:    info,
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// splitSolverArgs separates the <maps-dir> <scenarios-dir> positionals
// from the solver argument vector after "--". Solver words are only
// taken from behind the dash; stray positionals in front of it are
// rejected instead of silently becoming part of the solver command.
func splitSolverArgs(cmd *cobra.Command, args []string) (mapsDir, scenariosDir string, solver []string, err error) {
	positional := args
	if at := cmd.ArgsLenAtDash(); at >= 0 {
		positional = args[:at]
		solver = args[at:]
	}
	if len(positional) != 2 {
		return "", "", nil, fmt.Errorf("expected <maps-dir> <scenarios-dir> before --, got %d arguments", len(positional))
	}
	return positional[0], positional[1], solver, nil
}

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"mapfbench/internal/report"
	"mapfbench/internal/stats"
)

var (
	statsRoot   string
	statsFormat string
)

var statsCmd = &cobra.Command{
	Use:   "stats <set-name>",
	Short: "Print grouped success rates for a run set",
	Long: `stats loads every result record under <root>/<set-name> and prints the
success-rate tables configured for that set, either as terminal tables or
as LaTeX rows.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set := args[0]
		ds, err := stats.Load(filepath.Join(statsRoot, set))
		if err != nil {
			return err
		}
		if len(ds.Runs) == 0 {
			return fmt.Errorf("no result records under %s", filepath.Join(statsRoot, set))
		}

		tables, err := report.SetTables(set, ds)
		if err != nil {
			return err
		}
		width := report.TerminalWidth()
		for _, t := range tables {
			switch statsFormat {
			case "latex":
				fmt.Println(t.LaTeX())
			case "plain":
				fmt.Println(t.Render(width))
			default:
				return fmt.Errorf("unknown format %q (want plain or latex)", statsFormat)
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsRoot, "root", "experiments", "Root directory holding run sets")
	statsCmd.Flags().StringVar(&statsFormat, "format", "plain", "Output format: plain or latex")
}

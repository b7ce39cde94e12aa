// Package report turns aggregated statistics into success-rate tables and
// renders them for the terminal or for LaTeX documents.
package report

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"mapfbench/internal/stats"
)

// Table is one rendered statistic: a header row plus data rows. The first
// column of each row is its label.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
}

// LaTeX renders the table as LaTeX tabular rows. Header cells are wrapped
// in \rot{} for the vertical-label style the thesis tables use.
func (t Table) LaTeX() string {
	var b strings.Builder
	if t.Title != "" {
		fmt.Fprintf(&b, "%% %s\n", t.Title)
	}
	header := make([]string, len(t.Header))
	for i, h := range t.Header {
		header[i] = fmt.Sprintf("\\rot{%s}", escapeLaTeX(h))
	}
	b.WriteString(strings.Join(header, " & ") + " \\\\\n")
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = escapeLaTeX(c)
		}
		b.WriteString(strings.Join(cells, " & ") + " \\\\\n")
	}
	return b.String()
}

func escapeLaTeX(s string) string {
	return strings.ReplaceAll(s, "%", "\\%")
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Render draws the table for a terminal of the given width.
func (t Table) Render(width int) string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Width(min(width, 16*len(t.Header))).
		Headers(t.Header...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	out := tbl.Render()
	if t.Title != "" {
		out = titleStyle.Render(t.Title) + "\n" + out
	}
	return out
}

// TerminalWidth returns the stdout terminal width, or a conservative
// default when stdout is not a terminal.
func TerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 100
}

// percentCell formats a completion fraction, or "n/a" when the key
// combination has no runs at all. Any other query failure propagates.
func percentCell(p stats.Pattern, d *stats.Dataset) (string, error) {
	a, err := stats.Mean(p, d.Runs, []string{"completed"}, true)
	if errors.Is(err, stats.ErrNoRuns) {
		return "n/a", nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d%%", int(100*a)), nil
}

// ByAlgorithm builds one success-rate table per obstacle bucket for run
// sets keyed (agents, obstacles, heuristic, algorithm): rows are agent
// buckets, columns are algorithms.
func ByAlgorithm(d *stats.Dataset) ([]Table, error) {
	agents := d.KeyValues(0)
	obstacles := d.KeyValues(1)
	algorithms := d.KeyValues(3)
	if len(algorithms) == 0 {
		return nil, fmt.Errorf("no runs with algorithm dimension")
	}

	var tables []Table
	for _, obst := range obstacles {
		t := Table{
			Title:  fmt.Sprintf("obst = %s", obst),
			Header: []string{"Agents"},
		}
		for _, algo := range algorithms {
			t.Header = append(t.Header, d.AttrNames[algo])
		}
		for _, ag := range agents {
			row := []string{d.AttrNames[ag]}
			for _, algo := range algorithms {
				p := stats.Pattern{stats.Exact(ag), stats.Exact(obst), stats.Any(), stats.Exact(algo)}
				cell, err := percentCell(p, d)
				if err != nil {
					return nil, err
				}
				row = append(row, cell)
			}
			t.Rows = append(t.Rows, row)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// ByHeuristic builds the success-rate table for run sets keyed
// (heuristic, configuration, algorithm): rows are algorithms, columns are
// heuristics.
func ByHeuristic(d *stats.Dataset) ([]Table, error) {
	heuristics := d.KeyValues(0)
	algorithms := d.KeyValues(2)
	if len(algorithms) == 0 {
		return nil, fmt.Errorf("no runs with algorithm dimension")
	}

	t := Table{Header: []string{"Algorithm"}}
	for _, h := range heuristics {
		t.Header = append(t.Header, d.AttrNames[h])
	}
	for _, algo := range algorithms {
		row := []string{d.AttrNames[algo]}
		for _, h := range heuristics {
			p := stats.Pattern{stats.Exact(h), stats.Any(), stats.Exact(algo)}
			cell, err := percentCell(p, d)
			if err != nil {
				return nil, err
			}
			row = append(row, cell)
		}
		t.Rows = append(t.Rows, row)
	}
	return []Table{t}, nil
}

// setBuilders maps run-set names to their table layout.
var setBuilders = map[string]func(*stats.Dataset) ([]Table, error){
	"standard": ByAlgorithm,
	"pack":     ByAlgorithm,
	"rejoin":   ByHeuristic,
	"traffic":  ByHeuristic,
	"choices":  ByHeuristic,
}

// SetTables builds the tables configured for the named run set.
func SetTables(set string, d *stats.Dataset) ([]Table, error) {
	build, ok := setBuilders[set]
	if !ok {
		return nil, fmt.Errorf("set %q has no table configuration", set)
	}
	return build(d)
}

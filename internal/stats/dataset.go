// Package stats loads persisted result records back into a flat run
// collection and answers grouped statistical queries over it.
package stats

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"mapfbench/internal/result"
)

// resultSuffix marks persisted result records on disk.
const resultSuffix = ".result.json"

// confSegment matches a configuration directory like "500-agents-0.05-obst",
// which contributes two key dimensions: the agent bucket and the obstacle
// bucket.
var confSegment = regexp.MustCompile(`^([0-9]+)-agents-([0-9.]+)-obst$`)

// Run is the aggregation-time view of one result record: a categorical
// key tuple derived from where the record was stored, and its numeric and
// boolean fields flattened to float64.
type Run struct {
	Key    []string
	Values map[string]float64
}

// Dataset is a loaded run set. AttrNames maps categorical key values to
// display labels for presentation.
type Dataset struct {
	Runs      []Run
	AttrNames map[string]string
}

// Load walks root for result records and reconstructs the run collection.
// Each record's key is its directory path relative to root, one element
// per segment, with configuration segments expanded into separate agent
// and obstacle dimensions.
func Load(root string) (*Dataset, error) {
	ds := &Dataset{AttrNames: map[string]string{}}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), resultSuffix) {
			return nil
		}

		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		key := expandKey(rel)
		for _, k := range key {
			if _, ok := ds.AttrNames[k]; !ok {
				ds.AttrNames[k] = displayName(k)
			}
		}

		rec, err := result.ReadFile(path)
		if err != nil {
			return err
		}
		ds.Runs = append(ds.Runs, Run{Key: key, Values: runValues(rec)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load results under %s: %w", root, err)
	}
	return ds, nil
}

func expandKey(rel string) []string {
	var key []string
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		if seg == "." || seg == "" {
			continue
		}
		if m := confSegment.FindStringSubmatch(seg); m != nil {
			key = append(key, m[1], m[2])
			continue
		}
		key = append(key, seg)
	}
	return key
}

func runValues(rec result.Record) map[string]float64 {
	values := map[string]float64{"completed": 0}
	if rec.Completed {
		values["completed"] = 1
	}
	for name, v := range rec.Result {
		switch x := v.(type) {
		case float64:
			values[name] = x
		case bool:
			if x {
				values[name] = 1
			} else {
				values[name] = 0
			}
		}
	}
	return values
}

// solverNames maps key tokens to the solver names they abbreviate.
var solverNames = map[string]string{
	"greedy": "Greedy",
	"lra":    "LRA*",
	"whca":   "WHCA*",
	"od":     "OD",
}

func displayName(token string) string {
	if name, ok := solverNames[token]; ok {
		return name
	}
	return strings.ReplaceAll(token, "-", " ")
}

// KeyValues returns the distinct values at one key position across all
// runs, in natural order.
func (d *Dataset) KeyValues(pos int) []string {
	seen := map[string]bool{}
	var values []string
	for _, r := range d.Runs {
		if pos >= len(r.Key) || seen[r.Key[pos]] {
			continue
		}
		seen[r.Key[pos]] = true
		values = append(values, r.Key[pos])
	}
	SortNatural(values)
	return values
}

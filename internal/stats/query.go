package stats

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// ErrNoRuns is returned when a query pattern selects no runs. An empty
// match set is an explicit failure, never a silent zero.
var ErrNoRuns = errors.New("no runs match pattern")

// Match is one position of a key pattern: either a wildcard or an exact
// value.
type Match struct {
	any   bool
	value string
}

// Any matches every value at its position.
func Any() Match { return Match{any: true} }

// Exact matches only the given value.
func Exact(v string) Match { return Match{value: v} }

// Pattern selects runs by positional key comparison. Its arity must equal
// the key arity of the runs it is queried against.
type Pattern []Match

// Matches reports whether key satisfies the pattern. Keys of a different
// arity never match.
func (p Pattern) Matches(key []string) bool {
	if len(key) != len(p) {
		return false
	}
	for i, m := range p {
		if !m.any && m.value != key[i] {
			return false
		}
	}
	return true
}

func (p Pattern) String() string {
	s := make([]string, len(p))
	for i, m := range p {
		if m.any {
			s[i] = "*"
		} else {
			s[i] = m.value
		}
	}
	return fmt.Sprintf("%v", s)
}

// Mean returns the arithmetic mean of the named fields over every run the
// pattern selects. With asFraction the fields are expected to already be
// fractions (booleans stored as 0/1); values outside [0,1] are rejected so
// a mis-typed field fails loudly instead of skewing a percentage.
func Mean(p Pattern, runs []Run, fields []string, asFraction bool) (float64, error) {
	var xs []float64
	for _, r := range runs {
		if !p.Matches(r.Key) {
			continue
		}
		for _, f := range fields {
			v, ok := r.Values[f]
			if !ok {
				return 0, fmt.Errorf("run %v has no field %q", r.Key, f)
			}
			if asFraction && (v < 0 || v > 1) {
				return 0, fmt.Errorf("field %q value %v is not a fraction", f, v)
			}
			xs = append(xs, v)
		}
	}
	if len(xs) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoRuns, p)
	}
	return stat.Mean(xs, nil), nil
}

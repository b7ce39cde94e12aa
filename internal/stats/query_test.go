package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedRuns(values ...float64) []Run {
	runs := make([]Run, len(values))
	for i, v := range values {
		runs[i] = Run{
			Key:    []string{"100", "0.05", "manhattan", "lra"},
			Values: map[string]float64{"completed": v},
		}
	}
	return runs
}

func TestMeanFullyWildcarded(t *testing.T) {
	runs := completedRuns(1, 1, 0, 1)
	p := Pattern{Any(), Any(), Any(), Any()}

	got, err := Mean(p, runs, []string{"completed"}, true)
	require.NoError(t, err)
	assert.Equal(t, 0.75, got)
}

func TestMeanExactPositions(t *testing.T) {
	runs := []Run{
		{Key: []string{"100", "0.05", "h", "lra"}, Values: map[string]float64{"completed": 1}},
		{Key: []string{"100", "0.05", "h", "whca"}, Values: map[string]float64{"completed": 0}},
		{Key: []string{"500", "0.05", "h", "lra"}, Values: map[string]float64{"completed": 0}},
	}
	p := Pattern{Exact("100"), Any(), Any(), Exact("lra")}

	got, err := Mean(p, runs, []string{"completed"}, true)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestMeanEmptyMatchSetFails(t *testing.T) {
	runs := completedRuns(1, 0)
	p := Pattern{Exact("999"), Any(), Any(), Any()}

	_, err := Mean(p, runs, []string{"completed"}, true)
	require.ErrorIs(t, err, ErrNoRuns)
}

func TestMeanArityMismatchNeverMatches(t *testing.T) {
	runs := completedRuns(1)
	p := Pattern{Any(), Any()}

	_, err := Mean(p, runs, []string{"completed"}, true)
	require.ErrorIs(t, err, ErrNoRuns)
}

func TestMeanMissingFieldFails(t *testing.T) {
	runs := completedRuns(1)
	p := Pattern{Any(), Any(), Any(), Any()}

	_, err := Mean(p, runs, []string{"ticks"}, false)
	require.Error(t, err)
}

func TestMeanFractionRejectsOutOfRange(t *testing.T) {
	runs := []Run{{Key: []string{"a"}, Values: map[string]float64{"ticks": 42}}}
	p := Pattern{Any()}

	_, err := Mean(p, runs, []string{"ticks"}, true)
	require.Error(t, err)

	got, err := Mean(p, runs, []string{"ticks"}, false)
	require.NoError(t, err)
	assert.Equal(t, 42.0, got)
}

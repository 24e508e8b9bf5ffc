package bench

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnidev/golden/internal/registry"
	"github.com/omnidev/golden/internal/run"
)

func durations(ms ...float64) []time.Duration {
	out := make([]time.Duration, 0, len(ms))
	for _, m := range ms {
		out = append(out, time.Duration(m*float64(time.Millisecond)))
	}
	return out
}

func TestCaseStats_Statistics(t *testing.T) {
	s := CaseStats{Times: durations(10, 12, 14)}

	assert.InDelta(t, 12.0, s.Mean(), 0.001)
	assert.InDelta(t, 2.0, s.Stddev(), 0.001)
	assert.InDelta(t, 10.0, s.Min(), 0.001)
	assert.InDelta(t, 14.0, s.Max(), 0.001)
}

func TestCaseStats_Empty(t *testing.T) {
	s := CaseStats{}
	assert.Zero(t, s.Mean())
	assert.Zero(t, s.Stddev())
	assert.Zero(t, s.Min())
	assert.Zero(t, s.Max())
}

func TestCaseStats_SingleIterationHasNoStddev(t *testing.T) {
	s := CaseStats{Times: durations(7)}
	assert.InDelta(t, 7.0, s.Mean(), 0.001)
	assert.Zero(t, s.Stddev())
}

func TestRun_TimesEachCase(t *testing.T) {
	r, err := run.NewRunner("sh", 10*time.Second)
	require.NoError(t, err)
	defer r.Close()

	cases := []registry.TestCase{
		{Name: "one", Category: "bench", Args: []string{"-c", "true"}},
		{Name: "two", Category: "bench", Args: []string{"-c", "true"}},
	}

	stats := Run(context.Background(), r, cases, 3, 1)
	require.Len(t, stats, 2)

	for i, s := range stats {
		assert.Equal(t, cases[i].ID(), s.Case.ID())
		assert.Len(t, s.Times, 3)
		assert.GreaterOrEqual(t, s.Max(), s.Min())
	}
}

func TestRun_ClampsIterationsToOne(t *testing.T) {
	r, err := run.NewRunner("sh", 10*time.Second)
	require.NoError(t, err)
	defer r.Close()

	stats := Run(context.Background(), r,
		[]registry.TestCase{{Name: "one", Category: "bench", Args: []string{"-c", "true"}}}, 0, 0)
	require.Len(t, stats, 1)
	assert.Len(t, stats[0].Times, 1)
}

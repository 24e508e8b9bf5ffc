package run

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnidev/golden/internal/registry"
)

func makeCases(n int) []registry.TestCase {
	cases := make([]registry.TestCase, 0, n)
	for i := 0; i < n; i++ {
		cases = append(cases, registry.TestCase{
			Name:     fmt.Sprintf("case_%02d", i),
			Category: "pool",
			Args:     []string{"-c", fmt.Sprintf("printf 'out %02d\\n'", i)},
		})
	}
	return cases
}

func TestRunAll_PreservesInputOrder(t *testing.T) {
	r := newTestRunner(t, "sh", 10*time.Second)
	cases := makeCases(12)

	results := RunAll(context.Background(), r, cases, 4)
	require.Len(t, results, len(cases))

	for i, res := range results {
		assert.Equal(t, cases[i].Name, res.Case.Name, "slot %d", i)
		assert.Equal(t, fmt.Sprintf("out %02d\n", i), res.Stdout)
	}
}

// Running the same case set with one worker and with eight must yield
// identical, identically-ordered result sequences.
func TestRunAll_OrderingInvariantAcrossWorkerCounts(t *testing.T) {
	r := newTestRunner(t, "sh", 10*time.Second)
	cases := makeCases(10)

	serial := RunAll(context.Background(), r, cases, 1)
	parallel := RunAll(context.Background(), r, cases, 8)

	require.Len(t, parallel, len(serial))
	for i := range serial {
		assert.Equal(t, serial[i].Case.ID(), parallel[i].Case.ID())
		assert.Equal(t, serial[i].Stdout, parallel[i].Stdout)
		assert.Equal(t, serial[i].ExitCode, parallel[i].ExitCode)
	}
}

func TestRunAll_TimeoutDoesNotCancelSiblings(t *testing.T) {
	r := newTestRunner(t, "sh", 1*time.Second)

	cases := []registry.TestCase{
		{Name: "hang", Category: "pool", Args: []string{"-c", "sleep 30"}},
		{Name: "quick", Category: "pool", Args: []string{"-c", "printf 'ok\\n'"}},
	}

	results := RunAll(context.Background(), r, cases, 2)

	assert.Equal(t, TimeoutExitCode, results[0].ExitCode)
	assert.Equal(t, 0, results[1].ExitCode)
	assert.Equal(t, "ok\n", results[1].Stdout)
}

func TestRunAll_EmptyCases(t *testing.T) {
	r := newTestRunner(t, "sh", time.Second)
	assert.Empty(t, RunAll(context.Background(), r, nil, 4))
}

func TestRunAll_ZeroWorkersDegradesToSequential(t *testing.T) {
	r := newTestRunner(t, "sh", 10*time.Second)
	cases := makeCases(3)

	results := RunAll(context.Background(), r, cases, 0)
	require.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, fmt.Sprintf("out %02d\n", i), res.Stdout)
	}
}

// Package bench times registry test cases over the same run-a-process
// primitive the golden engine uses.
//
// Cases run sequentially, warmup first, so successive iterations are not
// fighting each other for CPU and the timings stay comparable across runs.
package bench

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/omnidev/golden/internal/registry"
	"github.com/omnidev/golden/internal/run"
)

// CaseStats holds the raw iteration timings for one test case.
type CaseStats struct {
	Case  registry.TestCase
	Times []time.Duration
}

// Mean returns the mean iteration time in milliseconds.
func (s CaseStats) Mean() float64 {
	if len(s.Times) == 0 {
		return 0
	}
	var total float64
	for _, t := range s.Times {
		total += ms(t)
	}
	return total / float64(len(s.Times))
}

// Stddev returns the sample standard deviation in milliseconds.
// Zero when fewer than two iterations were timed.
func (s CaseStats) Stddev() float64 {
	if len(s.Times) < 2 {
		return 0
	}
	mean := s.Mean()
	var sum float64
	for _, t := range s.Times {
		d := ms(t) - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(s.Times)-1))
}

// Min returns the fastest iteration in milliseconds.
func (s CaseStats) Min() float64 {
	if len(s.Times) == 0 {
		return 0
	}
	m := ms(s.Times[0])
	for _, t := range s.Times[1:] {
		m = math.Min(m, ms(t))
	}
	return m
}

// Max returns the slowest iteration in milliseconds.
func (s CaseStats) Max() float64 {
	if len(s.Times) == 0 {
		return 0
	}
	m := ms(s.Times[0])
	for _, t := range s.Times[1:] {
		m = math.Max(m, ms(t))
	}
	return m
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Run times each case: warmup unrecorded iterations, then iterations timed
// ones. Timed-out iterations are recorded at the timeout budget; they still
// count so hangs are visible in the stats rather than silently skipped.
func Run(ctx context.Context, r *run.Runner, cases []registry.TestCase, iterations, warmup int) []CaseStats {
	if iterations < 1 {
		iterations = 1
	}

	stats := make([]CaseStats, 0, len(cases))
	for _, tc := range cases {
		slog.Debug("benchmarking case", "case", tc.ID(), "iterations", iterations, "warmup", warmup)

		for i := 0; i < warmup; i++ {
			r.Run(ctx, tc)
		}

		cs := CaseStats{Case: tc, Times: make([]time.Duration, 0, iterations)}
		for i := 0; i < iterations; i++ {
			res := r.Run(ctx, tc)
			cs.Times = append(cs.Times, res.Duration)
		}
		stats = append(stats, cs)
	}
	return stats
}

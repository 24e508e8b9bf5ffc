package run

import (
	"context"
	"log/slog"
	"sync"

	"github.com/omnidev/golden/internal/registry"
)

// RunAll executes cases on a bounded worker pool and returns one Result per
// case, in the original input order.
//
// Workers share no mutable state: each writes only its own indexed slot, so
// report output is stable and diffable regardless of worker count. A single
// case's timeout cancels only that subprocess, never its siblings. workers
// below 1 degrade to sequential execution.
func RunAll(ctx context.Context, r *Runner, cases []registry.TestCase, workers int) []Result {
	if workers < 1 {
		workers = 1
	}
	if workers > len(cases) {
		workers = len(cases)
	}
	results := make([]Result, len(cases))
	if len(cases) == 0 {
		return results
	}

	slog.Debug("starting execution", "cases", len(cases), "workers", workers)

	type item struct {
		idx int
		tc  registry.TestCase
	}
	work := make(chan item)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := range work {
				slog.Debug("running case", "case", it.tc.ID())
				results[it.idx] = r.Run(ctx, it.tc)
			}
		}()
	}

feed:
	for i, tc := range cases {
		select {
		case work <- item{idx: i, tc: tc}:
		case <-ctx.Done():
			slog.Debug("context cancelled while dispatching cases")
			break feed
		}
	}
	close(work)
	wg.Wait()

	return results
}

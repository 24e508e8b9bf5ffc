// Package compare decides, per executed test case, whether behavior is
// unchanged relative to its baseline, producing a human-auditable diff when
// it is not.
//
// Comparison is two-tier. The fast path checks the manifest's stdout hash
// plus exit code and stderr, skipping line-level diffing entirely. The slow
// path compares field by field and generates unified diffs. Both paths must
// always agree on the final classification; that agreement is the central
// invariant of the engine.
package compare

import (
	"errors"
	"fmt"

	"github.com/omnidev/golden/internal/golden"
	"github.com/omnidev/golden/internal/manifest"
	"github.com/omnidev/golden/internal/registry"
	"github.com/omnidev/golden/internal/run"
)

// Status classifies one comparison outcome.
type Status string

const (
	// StatusMatch: behavior is unchanged relative to the baseline.
	StatusMatch Status = "match"
	// StatusMismatch: a legitimate behavioral difference, with a diff.
	StatusMismatch Status = "mismatch"
	// StatusNew: no baseline exists yet; expected for first-time tests.
	StatusNew Status = "new"
	// StatusMissing: baseline metadata exists but its stdout sidecar is gone.
	StatusMissing Status = "missing"
	// StatusError: stored state was unreadable or corrupt for this test.
	StatusError Status = "error"
)

// Result is the terminal outcome for one test case, produced once and never
// mutated. Message carries the mismatch summary or error text; Diff carries
// unified-diff text when a textual field differed.
type Result struct {
	Case    registry.TestCase
	Status  Status
	Message string
	Diff    string
}

// Comparator evaluates run results against the baselines under Dir, using
// Manifest for the hash fast path. It never writes; baselines are read-only
// here.
type Comparator struct {
	Dir      string
	Manifest *manifest.Manifest
}

// All compares every run result in order. Per-test failures are isolated:
// one corrupt baseline never aborts the remaining comparisons.
func (c *Comparator) All(results []run.Result) []Result {
	out := make([]Result, len(results))
	for i, res := range results {
		out[i] = c.Compare(res)
	}
	return out
}

// Compare resolves the status for one executed test case.
//
// Precedence: no baseline → new; unreadable sidecar → missing; corrupt
// metadata → error; then the hash fast path; then full field-by-field
// comparison short-circuiting on exit code, stdout, stderr in that order.
func (c *Comparator) Compare(res run.Result) Result {
	tc := res.Case

	snap, err := golden.Load(c.Dir, tc.Category, tc.Name)
	switch {
	case errors.Is(err, golden.ErrNoSnapshot):
		return Result{
			Case:    tc,
			Status:  StatusNew,
			Message: "no snapshot found; run record to create one",
		}
	case errors.Is(err, golden.ErrStdoutMissing):
		return Result{Case: tc, Status: StatusMissing, Message: err.Error()}
	case err != nil:
		return Result{Case: tc, Status: StatusError, Message: err.Error()}
	}

	// Fast path. The manifest hash covers normalized stdout only, so exit
	// code and stderr are still checked here; a hash match alone does not
	// prove the behavior is unchanged.
	if entry := c.entry(tc); entry != nil {
		if entry.SHA256 == golden.Digest(res.Stdout) &&
			res.ExitCode == snap.ExitCode &&
			res.Stderr == snap.Stderr {
			return Result{Case: tc, Status: StatusMatch}
		}
	}

	// Slow path.
	if res.ExitCode != snap.ExitCode {
		return Result{
			Case:    tc,
			Status:  StatusMismatch,
			Message: fmt.Sprintf("exit code mismatch: expected %d, got %d", snap.ExitCode, res.ExitCode),
		}
	}
	if res.Stdout != snap.Stdout {
		return Result{
			Case:    tc,
			Status:  StatusMismatch,
			Message: "stdout differs from snapshot",
			Diff:    Unified(snap.Stdout, res.Stdout, tc.ID()),
		}
	}
	if res.Stderr != snap.Stderr {
		return Result{
			Case:    tc,
			Status:  StatusMismatch,
			Message: "stderr differs from snapshot",
			Diff:    Unified(snap.Stderr, res.Stderr, tc.ID()+" (stderr)"),
		}
	}

	return Result{Case: tc, Status: StatusMatch}
}

func (c *Comparator) entry(tc registry.TestCase) *manifest.Entry {
	if c.Manifest == nil {
		return nil
	}
	return c.Manifest.Find(tc.Category, tc.Name)
}

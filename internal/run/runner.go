// Package run executes golden test cases as subprocesses and captures their
// observable behavior: exit code, stdout, and stderr.
//
// Captured output is normalized before it reaches any consumer, so the
// Recorder and Comparator only ever see canonical text. Timeouts never
// escape as errors; they become sentinel results so one hung command cannot
// abort a batch.
package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/omnidev/golden/internal/normalize"
	"github.com/omnidev/golden/internal/registry"
)

// TimeoutExitCode is the reserved sentinel denoting "execution timed out".
// It never collides with real exit statuses, which are non-negative.
const TimeoutExitCode = -1

// startFailureExitCode mirrors the shell convention for a command that could
// not be started at all (missing or non-executable binary).
const startFailureExitCode = 127

// Result captures one execution of a test case. Stdout and Stderr are
// already normalized with the case's normalization chain. Results are
// created once by the Runner and never mutated afterward.
type Result struct {
	Case     registry.TestCase
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// TimedOut reports whether this result is the timeout sentinel.
func (r Result) TimedOut() bool {
	return r.ExitCode == TimeoutExitCode && strings.HasPrefix(r.Stderr, "TIMEOUT:")
}

// Runner executes test cases against a single binary under a bounded time
// budget. It owns a private temp directory for fixture files; Close removes
// it. A Runner is safe for concurrent use by multiple workers because every
// fixture filename is keyed by the full (category, name) identity.
type Runner struct {
	binary  string
	timeout time.Duration
	tempDir string
}

// NewRunner creates a Runner for the given binary with a per-test timeout.
func NewRunner(binary string, timeout time.Duration) (*Runner, error) {
	dir, err := os.MkdirTemp("", "golden_")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	return &Runner{binary: binary, timeout: timeout, tempDir: dir}, nil
}

// Close removes the Runner's fixture temp directory.
func (r *Runner) Close() error {
	return os.RemoveAll(r.tempDir)
}

// Run executes one test case and returns its Result.
//
// If the case carries a fixture, the fixture is materialized to a temp file
// and substituted for every {file} token in args; the file is removed on all
// exit paths. Timeouts and process start failures are reported through the
// Result's exit code and stderr, never as panics or crashes.
func (r *Runner) Run(ctx context.Context, tc registry.TestCase) Result {
	args := append([]string(nil), tc.Args...)

	if tc.Fixture != nil {
		// Keyed by the full identity, not name alone: cases that share a
		// name across categories must not collide under parallel execution.
		fixturePath := filepath.Join(r.tempDir, fmt.Sprintf("%s_%s.txt", tc.Category, tc.Name))
		if err := os.WriteFile(fixturePath, []byte(*tc.Fixture), 0o644); err != nil {
			return r.finish(tc, "", fmt.Sprintf("fixture: %v", err), startFailureExitCode, 0)
		}
		defer os.Remove(fixturePath)

		for i, a := range args {
			if a == registry.FilePlaceholder {
				args[i] = fixturePath
			}
		}
	}

	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, r.binary, args...)
	// A killed process can leave children holding the output pipes; without
	// a wait delay, Run would block past the deadline on their behalf.
	cmd.WaitDelay = time.Second
	if tc.Stdin != nil {
		cmd.Stdin = strings.NewReader(*tc.Stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if cctx.Err() == context.DeadlineExceeded {
		msg := fmt.Sprintf("TIMEOUT: command exceeded %ds", int(r.timeout.Seconds()))
		return r.finish(tc, "", msg, TimeoutExitCode, elapsed)
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			// The process never started; report what the process layer said.
			exitCode = startFailureExitCode
			fmt.Fprintf(&stderr, "%v", err)
		}
	}

	return r.finish(tc, stdout.String(), stderr.String(), exitCode, elapsed)
}

// finish normalizes captured output and assembles the immutable Result.
func (r *Runner) finish(tc registry.TestCase, stdout, stderr string, exitCode int, elapsed time.Duration) Result {
	return Result{
		Case:     tc,
		Stdout:   normalize.Apply(stdout, tc.Normalizations),
		Stderr:   normalize.Apply(stderr, tc.Normalizations),
		ExitCode: exitCode,
		Duration: elapsed,
	}
}

// Package report aggregates compare results into a human-readable summary
// and the single process exit code.
//
// The reporter is the only component that turns statuses into an exit code;
// everything upstream communicates failure through the status field.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/omnidev/golden/internal/compare"
)

// Exit codes for a compare batch.
const (
	ExitOK         = 0 // every case matched
	ExitFailure    = 1 // mismatches, missing sidecars, or new baselines
	ExitStructural = 2 // corrupt baseline or manifest state
)

// maxDiffLines bounds diff output per test unless verbose is set.
const maxDiffLines = 20

// Summary tallies compare results by status.
type Summary struct {
	Match    int
	Mismatch int
	New      int
	Missing  int
	Error    int
	Total    int
}

// Summarize tallies the statuses of results.
func Summarize(results []compare.Result) Summary {
	var s Summary
	s.Total = len(results)
	for _, r := range results {
		switch r.Status {
		case compare.StatusMatch:
			s.Match++
		case compare.StatusMismatch:
			s.Mismatch++
		case compare.StatusNew:
			s.New++
		case compare.StatusMissing:
			s.Missing++
		case compare.StatusError:
			s.Error++
		}
	}
	return s
}

// ExitCode maps the worst observed status to the process exit code:
// any error dominates, then any mismatch, missing sidecar, or new baseline.
func (s Summary) ExitCode() int {
	switch {
	case s.Error > 0:
		return ExitStructural
	case s.Mismatch > 0 || s.Missing > 0 || s.New > 0:
		return ExitFailure
	default:
		return ExitOK
	}
}

// Print writes per-test status lines and the summary table to w, returning
// the process exit code for the batch. Diffs are truncated unless verbose.
func Print(w io.Writer, results []compare.Result, verbose bool) int {
	for _, r := range results {
		printResult(w, r, verbose)
	}

	s := Summarize(results)
	fmt.Fprintln(w)
	printSummaryTable(w, s)
	return s.ExitCode()
}

func printResult(w io.Writer, r compare.Result, verbose bool) {
	id := r.Case.ID()
	switch r.Status {
	case compare.StatusMatch:
		fmt.Fprintf(w, "✓ %s\n", id)
	case compare.StatusNew:
		fmt.Fprintf(w, "● %s — %s\n", id, r.Message)
	case compare.StatusMissing:
		fmt.Fprintf(w, "✗ %s — %s\n", id, r.Message)
	case compare.StatusError:
		fmt.Fprintf(w, "✗ %s — error: %s\n", id, r.Message)
	case compare.StatusMismatch:
		fmt.Fprintf(w, "✗ %s — %s\n", id, r.Message)
		if r.Diff != "" {
			for _, line := range diffLines(r.Diff, verbose) {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
}

// diffLines returns the diff split into lines, truncated with a marker when
// not verbose.
func diffLines(diff string, verbose bool) []string {
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	if verbose || len(lines) <= maxDiffLines {
		return lines
	}
	truncated := append([]string(nil), lines[:maxDiffLines]...)
	return append(truncated, fmt.Sprintf("... (%d more lines, use --verbose)", len(lines)-maxDiffLines))
}

func printSummaryTable(w io.Writer, s Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Status", "Count"})
	t.AppendRow(table.Row{"match", s.Match})
	if s.Mismatch > 0 {
		t.AppendRow(table.Row{"mismatch", s.Mismatch})
	}
	if s.New > 0 {
		t.AppendRow(table.Row{"new", s.New})
	}
	if s.Missing > 0 {
		t.AppendRow(table.Row{"missing", s.Missing})
	}
	if s.Error > 0 {
		t.AppendRow(table.Row{"error", s.Error})
	}
	t.AppendFooter(table.Row{"total", s.Total})
	t.SetStyle(table.StyleLight)
	t.Render()
}

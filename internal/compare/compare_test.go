package compare

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnidev/golden/internal/golden"
	"github.com/omnidev/golden/internal/manifest"
	"github.com/omnidev/golden/internal/registry"
	"github.com/omnidev/golden/internal/run"
)

// recordBaseline writes a snapshot plus its manifest entry the way the
// recorder would, returning a comparator over the resulting state.
func recordBaseline(t *testing.T, dir string, results ...run.Result) *Comparator {
	t.Helper()
	rec := &golden.Recorder{Dir: dir}
	_, err := rec.Record(results)
	require.NoError(t, err)

	m, err := manifest.Load(dir)
	require.NoError(t, err)
	return &Comparator{Dir: dir, Manifest: m}
}

func testCase(category, name string) registry.TestCase {
	return registry.TestCase{Category: category, Name: name}
}

func TestCompare_MatchIdenticalBehavior(t *testing.T) {
	tc := testCase("text", "hello")
	dir := t.TempDir()
	c := recordBaseline(t, dir, run.Result{Case: tc, Stdout: "hello\n", ExitCode: 0})

	res := c.Compare(run.Result{Case: tc, Stdout: "hello\n", ExitCode: 0})
	assert.Equal(t, StatusMatch, res.Status)
	assert.Empty(t, res.Diff)
}

func TestCompare_MatchAfterNormalization(t *testing.T) {
	// Baseline recorded from "hello   \n" under strip_trailing_whitespace;
	// a later run producing "hello\n" compares equal because both sides are
	// normalized before they ever reach the comparator.
	tc := registry.TestCase{
		Category:       "text",
		Name:           "trailing",
		Normalizations: []string{"strip_trailing_whitespace"},
	}
	dir := t.TempDir()
	// Recorder receives already-normalized output.
	c := recordBaseline(t, dir, run.Result{Case: tc, Stdout: "hello\n", ExitCode: 0})

	res := c.Compare(run.Result{Case: tc, Stdout: "hello\n", ExitCode: 0})
	assert.Equal(t, StatusMatch, res.Status)
}

func TestCompare_StdoutMismatchCarriesDiff(t *testing.T) {
	tc := testCase("text", "hello")
	dir := t.TempDir()
	c := recordBaseline(t, dir, run.Result{Case: tc, Stdout: "hello\n", ExitCode: 0})

	res := c.Compare(run.Result{Case: tc, Stdout: "hello world\n", ExitCode: 0})
	require.Equal(t, StatusMismatch, res.Status)
	assert.Equal(t, "stdout differs from snapshot", res.Message)
	assert.Contains(t, res.Diff, "-hello")
	assert.Contains(t, res.Diff, "+hello world")
	assert.Contains(t, res.Diff, "snapshot/text/hello")
	assert.Contains(t, res.Diff, "actual/text/hello")
}

func TestCompare_ExitCodeMismatchShortCircuits(t *testing.T) {
	tc := testCase("text", "hello")
	dir := t.TempDir()
	c := recordBaseline(t, dir, run.Result{Case: tc, Stdout: "hello\n", ExitCode: 0})

	// Stdout also differs, but exit code is checked first.
	res := c.Compare(run.Result{Case: tc, Stdout: "other\n", ExitCode: 1})
	require.Equal(t, StatusMismatch, res.Status)
	assert.Equal(t, "exit code mismatch: expected 0, got 1", res.Message)
	assert.Empty(t, res.Diff)
}

func TestCompare_StderrMismatch(t *testing.T) {
	tc := testCase("text", "hello")
	dir := t.TempDir()
	c := recordBaseline(t, dir, run.Result{Case: tc, Stdout: "hello\n", Stderr: "warn\n", ExitCode: 0})

	res := c.Compare(run.Result{Case: tc, Stdout: "hello\n", Stderr: "other\n", ExitCode: 0})
	require.Equal(t, StatusMismatch, res.Status)
	assert.Equal(t, "stderr differs from snapshot", res.Message)
	assert.Contains(t, res.Diff, "(stderr)")
}

func TestCompare_NewWhenNoBaseline(t *testing.T) {
	c := &Comparator{Dir: t.TempDir(), Manifest: manifest.New()}

	res := c.Compare(run.Result{Case: testCase("foo", "bar"), Stdout: "x\n"})
	assert.Equal(t, StatusNew, res.Status)
	assert.NotEqual(t, StatusError, res.Status)
}

func TestCompare_RecordThenCompareReportsMatch(t *testing.T) {
	// Scenario D: compare → new; record; compare again → match.
	tc := testCase("foo", "bar")
	dir := t.TempDir()
	result := run.Result{Case: tc, Stdout: "output\n", ExitCode: 0}

	c := &Comparator{Dir: dir, Manifest: manifest.New()}
	assert.Equal(t, StatusNew, c.Compare(result).Status)

	c = recordBaseline(t, dir, result)
	assert.Equal(t, StatusMatch, c.Compare(result).Status)
}

func TestCompare_MissingWhenSidecarGone(t *testing.T) {
	tc := testCase("text", "hello")
	dir := t.TempDir()
	c := recordBaseline(t, dir, run.Result{Case: tc, Stdout: "hello\n"})

	require.NoError(t, os.Remove(golden.StdoutPath(dir, "text", "hello")))

	res := c.Compare(run.Result{Case: tc, Stdout: "hello\n"})
	assert.Equal(t, StatusMissing, res.Status)
}

func TestCompare_ErrorOnCorruptMetadataDoesNotAbortBatch(t *testing.T) {
	good := testCase("text", "good")
	bad := testCase("text", "bad")
	dir := t.TempDir()
	c := recordBaseline(t, dir,
		run.Result{Case: good, Stdout: "fine\n"},
		run.Result{Case: bad, Stdout: "fine\n"},
	)

	require.NoError(t, os.WriteFile(
		golden.MetadataPath(dir, "text", "bad"), []byte("{broken"), 0o644))

	results := c.All([]run.Result{
		{Case: bad, Stdout: "fine\n"},
		{Case: good, Stdout: "fine\n"},
	})

	assert.Equal(t, StatusError, results[0].Status)
	assert.NotEmpty(t, results[0].Message)
	assert.Equal(t, StatusMatch, results[1].Status)
}

// The hash fast path and the field-by-field slow path must classify every
// (run result, baseline) pair identically.
func TestCompare_FastAndSlowPathsAgree(t *testing.T) {
	tc := testCase("text", "hello")
	baseline := run.Result{Case: tc, Stdout: "hello\n", Stderr: "note\n", ExitCode: 0}

	actuals := []run.Result{
		{Case: tc, Stdout: "hello\n", Stderr: "note\n", ExitCode: 0},  // identical
		{Case: tc, Stdout: "changed\n", Stderr: "note\n", ExitCode: 0}, // stdout drift
		{Case: tc, Stdout: "hello\n", Stderr: "other\n", ExitCode: 0},  // stderr drift
		{Case: tc, Stdout: "hello\n", Stderr: "note\n", ExitCode: 1},   // exit drift
		{Case: tc, Stdout: "changed\n", Stderr: "other\n", ExitCode: 1},
	}

	for i, actual := range actuals {
		dir := t.TempDir()
		withManifest := recordBaseline(t, dir, baseline)

		// Same baselines, but no manifest: every comparison is forced down
		// the slow path.
		slowOnly := &Comparator{Dir: dir, Manifest: manifest.New()}

		fast := withManifest.Compare(actual)
		slow := slowOnly.Compare(actual)
		assert.Equal(t, slow.Status, fast.Status, "actual[%d]", i)
	}
}

func TestCompare_HashMatchAloneIsNotEnough(t *testing.T) {
	// Same stdout (hash hit) but different exit code must still mismatch:
	// the manifest hash covers stdout only.
	tc := testCase("text", "hello")
	dir := t.TempDir()
	c := recordBaseline(t, dir, run.Result{Case: tc, Stdout: "hello\n", ExitCode: 0})

	res := c.Compare(run.Result{Case: tc, Stdout: "hello\n", ExitCode: 2})
	require.Equal(t, StatusMismatch, res.Status)
	assert.Contains(t, res.Message, "exit code mismatch")
}

func TestUnified_Labels(t *testing.T) {
	diff := Unified("a\n", "b\n", "cat/name")
	assert.Contains(t, diff, "--- snapshot/cat/name")
	assert.Contains(t, diff, "+++ actual/cat/name")
	assert.Contains(t, diff, "-a")
	assert.Contains(t, diff, "+b")
}

func TestUnified_EqualTextProducesNoDiff(t *testing.T) {
	assert.Empty(t, Unified("same\n", "same\n", "x"))
}

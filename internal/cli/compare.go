package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omnidev/golden/internal/compare"
	"github.com/omnidev/golden/internal/manifest"
	"github.com/omnidev/golden/internal/report"
	"github.com/omnidev/golden/internal/run"
)

// NewCompareCommand creates the compare command.
func NewCompareCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Compare against golden masters",
		Long: `Run every selected test case and compare its behavior against the
recorded baselines. Hash fast path via the manifest; full diff otherwise.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, opts)
		},
	}
}

func runCompare(cmd *cobra.Command, opts *RootOptions) error {
	w := cmd.OutOrStdout()

	cases, err := loadCases(opts)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		fmt.Fprintln(w, "No test cases found.")
		return nil
	}

	binary, err := resolveBinary(opts)
	if err != nil {
		return err
	}

	m, err := manifest.Load(opts.GoldenDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load manifest", err)
	}

	fmt.Fprintf(w, "=== Golden Master Tests (%d tests) ===\n", len(cases))

	runner, err := run.NewRunner(binary, opts.timeout())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create runner", err)
	}
	defer runner.Close()

	results := run.RunAll(cmd.Context(), runner, cases, opts.Workers)

	cmp := &compare.Comparator{Dir: opts.GoldenDir, Manifest: m}
	comparisons := cmp.All(results)

	switch code := report.Print(w, comparisons, opts.Verbose); code {
	case report.ExitOK:
		return nil
	case report.ExitStructural:
		return NewExitError(ExitCommandError, "structural errors while comparing baselines")
	default:
		return NewExitError(ExitFailure, "golden master comparison failed")
	}
}

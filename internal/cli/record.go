package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/omnidev/golden/internal/golden"
	"github.com/omnidev/golden/internal/manifest"
	"github.com/omnidev/golden/internal/registry"
	"github.com/omnidev/golden/internal/run"
)

// NewRecordCommand creates the record command.
func NewRecordCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "record",
		Short: "Record golden master baselines",
		Long: `Run every selected test case and unconditionally capture its current
behavior as the new baseline. Recording overwrites prior snapshots for the
same (category, name) identity; it is deliberately a separate command from
compare.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cases, err := loadCases(opts)
			if err != nil {
				return err
			}
			return recordCases(cmd, opts, cases)
		},
	}
}

// recordCases runs the cases and writes baselines plus the manifest.
// Shared by record and update.
func recordCases(cmd *cobra.Command, opts *RootOptions, cases []registry.TestCase) error {
	w := cmd.OutOrStdout()
	if len(cases) == 0 {
		fmt.Fprintln(w, "No test cases found.")
		return nil
	}

	binary, err := resolveBinary(opts)
	if err != nil {
		return err
	}

	scope := opts.Category
	if scope == "" {
		scope = "all"
	}
	fmt.Fprintf(w, "=== Recording Golden Masters (%s, %d tests) ===\n", scope, len(cases))

	runner, err := run.NewRunner(binary, opts.timeout())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create runner", err)
	}
	defer runner.Close()

	results := run.RunAll(cmd.Context(), runner, cases, opts.Workers)

	rec := &golden.Recorder{Dir: opts.GoldenDir, ToolCommit: toolCommit()}
	if _, err := rec.Record(results); err != nil {
		return WrapExitError(ExitCommandError, "failed to write golden masters", err)
	}

	fmt.Fprintf(w, "\nRecorded %d golden masters.\n", len(results))
	fmt.Fprintf(w, "Manifest: %s\n", filepath.Join(opts.GoldenDir, manifest.FileName))
	return nil
}

// Package cli wires the golden-master engine to its command-line surface:
// record, compare, list, update, map, and bench subcommands over a shared
// set of flags. Commands communicate failure through ExitError codes; main
// is the single place that calls os.Exit.
package cli

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// BinaryEnvVar overrides the binary path when --binary is absent.
const BinaryEnvVar = "GOLDEN_BIN"

// Defaults for the shared flags.
const (
	DefaultGoldenDir = "testing/golden"
	DefaultTimeout   = 30
	DefaultWorkers   = 1
)

// registryFileName is the registry's name inside the golden dir when
// --registry is not given.
const registryFileName = "golden_tests.yaml"

// RootOptions holds the flags shared by all subcommands.
type RootOptions struct {
	Binary      string
	GoldenDir   string
	Registry    string
	Workers     int
	Timeout     int // seconds
	Category    string
	Pattern     string
	Incremental bool
	Verbose     bool
}

// ResolveBinary returns the binary under test: --binary wins, then the
// GOLDEN_BIN environment variable. Empty means unresolved.
func (o *RootOptions) ResolveBinary() string {
	if o.Binary != "" {
		return o.Binary
	}
	return os.Getenv(BinaryEnvVar)
}

// ResolveRegistry returns the registry path, defaulting to
// <golden-dir>/golden_tests.yaml.
func (o *RootOptions) ResolveRegistry() string {
	if o.Registry != "" {
		return o.Registry
	}
	return filepath.Join(o.GoldenDir, registryFileName)
}

// NewRootCommand creates the root command for the golden CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "golden",
		Short: "Golden master regression testing for CLI binaries",
		Long: `golden records the exact observable behavior of commands (exit code,
stdout, stderr) as baselines, then re-runs them later and reports whether
behavior changed.

Exit codes:
  0 - All cases matched
  1 - Mismatches or new baselines present
  2 - Structural error (corrupt manifest/baseline, missing registry)`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(opts.Verbose)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Binary, "binary", "", "path to the binary under test (default: $"+BinaryEnvVar+")")
	cmd.PersistentFlags().StringVar(&opts.GoldenDir, "golden-dir", DefaultGoldenDir, "golden masters directory")
	cmd.PersistentFlags().StringVar(&opts.Registry, "registry", "", "path to the test registry (default: <golden-dir>/"+registryFileName+")")
	cmd.PersistentFlags().IntVar(&opts.Workers, "workers", DefaultWorkers, "parallel workers")
	cmd.PersistentFlags().IntVar(&opts.Timeout, "timeout", DefaultTimeout, "per-test timeout in seconds")
	cmd.PersistentFlags().StringVar(&opts.Category, "category", "", "filter by category")
	cmd.PersistentFlags().StringVar(&opts.Pattern, "pattern", "", "filter by name substring")
	cmd.PersistentFlags().BoolVar(&opts.Incremental, "incremental", false, "only run changed test cases")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewRecordCommand(opts))
	cmd.AddCommand(NewCompareCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewMapCommand(opts))
	cmd.AddCommand(NewBenchCommand(opts))

	return cmd
}

func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

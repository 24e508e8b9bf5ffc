package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/omnidev/golden/internal/bench"
	"github.com/omnidev/golden/internal/history"
	"github.com/omnidev/golden/internal/run"
)

// NewBenchCommand creates the bench command.
func NewBenchCommand(opts *RootOptions) *cobra.Command {
	var iterations int
	var warmup int
	var historyDB string

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark test case commands",
		Long: `Time each selected test case over the same run primitive the engine
uses: warmup iterations first, then timed ones. With --history-db, timing
statistics are appended to a SQLite ledger for trend analysis.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cases, err := loadCases(opts)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(cases) == 0 {
				fmt.Fprintln(w, "No test cases found.")
				return nil
			}

			binary, err := resolveBinary(opts)
			if err != nil {
				return err
			}

			runner, err := run.NewRunner(binary, opts.timeout())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to create runner", err)
			}
			defer runner.Close()

			fmt.Fprintf(w, "=== Benchmarking (%d cases, %d iterations, %d warmup) ===\n",
				len(cases), iterations, warmup)

			stats := bench.Run(cmd.Context(), runner, cases, iterations, warmup)

			t := table.NewWriter()
			t.SetOutputMirror(w)
			t.AppendHeader(table.Row{"Case", "Mean (ms)", "Stddev", "Min", "Max"})
			for _, s := range stats {
				t.AppendRow(table.Row{
					s.Case.ID(),
					fmt.Sprintf("%.2f", s.Mean()),
					fmt.Sprintf("%.2f", s.Stddev()),
					fmt.Sprintf("%.2f", s.Min()),
					fmt.Sprintf("%.2f", s.Max()),
				})
			}
			t.SetStyle(table.StyleLight)
			t.Render()

			if historyDB == "" {
				return nil
			}
			return persistStats(cmd, historyDB, iterations, stats)
		},
	}

	cmd.Flags().IntVar(&iterations, "iterations", 10, "timed iterations per case")
	cmd.Flags().IntVar(&warmup, "warmup", 2, "untimed warmup iterations per case")
	cmd.Flags().StringVar(&historyDB, "history-db", "", "SQLite database for benchmark history")

	return cmd
}

func persistStats(cmd *cobra.Command, path string, iterations int, stats []bench.CaseStats) error {
	store, err := history.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	defer store.Close()

	for _, s := range stats {
		rec := history.Record{
			ID:         uuid.Must(uuid.NewV7()).String(),
			Category:   s.Case.Category,
			Name:       s.Case.Name,
			Iterations: iterations,
			MeanMS:     s.Mean(),
			StddevMS:   s.Stddev(),
			MinMS:      s.Min(),
			MaxMS:      s.Max(),
		}
		if err := store.Insert(cmd.Context(), rec); err != nil {
			return WrapExitError(ExitCommandError, "failed to persist benchmark record", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Benchmark history written to %s\n", path)
	return nil
}

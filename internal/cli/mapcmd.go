package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/omnidev/golden/internal/registry"
)

// MapEntry is one row of the generated test map.
type MapEntry struct {
	Category       string   `json:"category"`
	Name           string   `json:"name"`
	Args           []string `json:"args"`
	Stdin          bool     `json:"stdin"`
	Fixture        bool     `json:"fixture"`
	Normalizations []string `json:"normalizations,omitempty"`
}

// NewMapCommand creates the map command.
func NewMapCommand(opts *RootOptions) *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Generate a test map",
		Long:  "Render the selected test cases as a table or JSON, to stdout or a file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be table or json", format))
			}

			cases, err := loadCases(opts)
			if err != nil {
				return err
			}
			entries := BuildTestMap(cases)

			var rendered string
			if format == "json" {
				rendered, err = formatMapJSON(entries)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to render test map", err)
				}
			} else {
				rendered = formatMapTable(entries)
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(rendered+"\n"), 0o644); err != nil {
					return WrapExitError(ExitCommandError, "failed to write test map", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Test map written to %s\n", output)
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format (table|json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// BuildTestMap converts cases into map entries in registry order.
func BuildTestMap(cases []registry.TestCase) []MapEntry {
	entries := make([]MapEntry, 0, len(cases))
	for _, tc := range cases {
		entries = append(entries, MapEntry{
			Category:       tc.Category,
			Name:           tc.Name,
			Args:           tc.Args,
			Stdin:          tc.Stdin != nil,
			Fixture:        tc.Fixture != nil,
			Normalizations: tc.Normalizations,
		})
	}
	return entries
}

func formatMapJSON(entries []MapEntry) (string, error) {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func formatMapTable(entries []MapEntry) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Category", "Name", "Args", "Stdin", "File", "Normalizations"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.Category,
			e.Name,
			strings.Join(e.Args, " "),
			yesNo(e.Stdin),
			yesNo(e.Fixture),
			strings.Join(e.Normalizations, ","),
		})
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List test cases",
		Long:  "List the registry's test cases grouped by category, honoring --category and --pattern.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cases, err := loadCases(opts)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "=== Golden Test Registry ===")

			current := ""
			for _, tc := range cases {
				if tc.Category != current {
					current = tc.Category
					fmt.Fprintf(w, "\n  %s:\n", current)
				}
				var tags []string
				if tc.Stdin != nil {
					tags = append(tags, "stdin")
				}
				if tc.Fixture != nil {
					tags = append(tags, "file")
				}
				tagStr := ""
				if len(tags) > 0 {
					tagStr = fmt.Sprintf(" (%s)", strings.Join(tags, ", "))
				}
				fmt.Fprintf(w, "    %s%s\n", tc.Name, tagStr)
			}

			fmt.Fprintf(w, "\nTotal: %d tests\n", len(cases))
			return nil
		},
	}
}

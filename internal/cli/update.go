package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/omnidev/golden/internal/registry"
)

// NewUpdateCommand creates the update command: re-record the cases whose
// name contains the given pattern.
func NewUpdateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update [pattern]",
		Short: "Re-record matching test cases",
		Long: `Re-record baselines for test cases whose name contains the pattern
substring. Without a pattern, behaves like record over the selected cases.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cases, err := loadCases(opts)
			if err != nil {
				return err
			}

			if len(args) == 1 && args[0] != "" {
				var matched []registry.TestCase
				for _, tc := range cases {
					if strings.Contains(tc.Name, args[0]) {
						matched = append(matched, tc)
					}
				}
				cases = matched
			}

			return recordCases(cmd, opts, cases)
		},
	}
}

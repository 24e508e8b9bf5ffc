package compare

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Unified renders a unified diff of baseline vs actual text, labeled with
// the test identity so multi-test reports stay attributable.
func Unified(expected, actual, label string) string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "snapshot/" + label,
		ToFile:   "actual/" + label,
		Context:  3,
	})
	if err != nil {
		// The writer is an in-memory buffer; this cannot fail in practice.
		return ""
	}
	return text
}

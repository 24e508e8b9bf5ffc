// Package normalize rewrites captured process output so incidental
// environment differences (line endings, trailing whitespace, absolute
// paths) do not register as regressions.
//
// Every transform is deterministic and idempotent: applying the same chain
// twice yields the same text as applying it once. The chain is dispatched
// through a closed set of known kinds; unknown names are silently ignored
// so older engines tolerate registries written for newer ones.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind names a built-in normalization transform.
type Kind string

const (
	// KindNewlines canonicalizes CRLF to LF. Always applied first,
	// unconditionally, whether or not a chain names it.
	KindNewlines Kind = "normalize_newlines"

	// KindTrailingWhitespace strips trailing whitespace from each line.
	KindTrailingWhitespace Kind = "strip_trailing_whitespace"

	// KindPath replaces absolute filesystem paths with "<PATH>".
	KindPath Kind = "strip_path"

	// KindTempDir replaces temp-directory paths with "<TMPDIR>".
	KindTempDir Kind = "strip_temp_dir"

	// KindUnicode canonicalizes text to Unicode NFC.
	KindUnicode Kind = "normalize_unicode"
)

var (
	// Windows drive paths, or /-rooted paths with at least two segments.
	// The replacement token contains no path separators, so re-running the
	// transform leaves it untouched.
	pathPattern = regexp.MustCompile(`[A-Za-z]:\\[^\s"']+|/[^\s"']+(?:/[^\s"']+)+`)

	// tmp/temp-rooted paths on either separator style.
	tempDirPattern = regexp.MustCompile(`(?i)(?:[A-Za-z]:\\|/)(?:tmp|temp)[/\\][^\s"']*`)
)

// transforms is the strategy table mapping kind to its implementation.
var transforms = map[Kind]func(string) string{
	KindNewlines:           canonicalizeNewlines,
	KindTrailingWhitespace: stripTrailingWhitespace,
	KindPath:               stripPaths,
	KindTempDir:            stripTempDirs,
	KindUnicode:            norm.NFC.String,
}

// Apply runs the named transforms over text in order.
//
// Newline canonicalization always runs first regardless of names. Names that
// do not match a known Kind are no-ops.
func Apply(text string, names []string) string {
	text = canonicalizeNewlines(text)
	for _, name := range names {
		if fn, ok := transforms[Kind(name)]; ok {
			text = fn(text)
		}
	}
	return text
}

// Known reports whether name maps to a built-in transform.
func Known(name string) bool {
	_, ok := transforms[Kind(name)]
	return ok
}

func canonicalizeNewlines(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

func stripTrailingWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r\v\f")
	}
	return strings.Join(lines, "\n")
}

func stripPaths(text string) string {
	return pathPattern.ReplaceAllString(text, "<PATH>")
}

func stripTempDirs(text string) string {
	return tempDirPattern.ReplaceAllString(text, "<TMPDIR>")
}

// Package registry loads golden test case definitions from a YAML registry.
//
// The registry is an external collaborator: a declarative list of categories,
// each holding test definitions (name, args, optional stdin/fixture, and a
// normalization chain). The engine treats it as opaque input; this package
// only decodes, validates, and filters it.
package registry

import (
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

// TestCase is one golden master test definition.
//
// (Category, Name) is the stable identity key used for snapshot paths,
// manifest entries, and reporting. Stdin and Fixture are pointers so that an
// absent key can be told apart from an explicit empty string.
type TestCase struct {
	Name             string
	Category         string
	Args             []string
	Stdin            *string
	Fixture          *string
	Normalizations   []string
	PlatformSpecific bool
}

// ID returns the "category/name" identity string used in labels and reports.
func (tc TestCase) ID() string {
	return tc.Category + "/" + tc.Name
}

// FilePlaceholder is the args token replaced with a materialized fixture path.
const FilePlaceholder = "{file}"

// registrySchema validates the registry shape before decoding. Optional
// fields may be omitted entirely; extra fields pass through so newer
// registries keep working against older engines.
const registrySchema = `
categories?: [...{
	name!: string
	tests?: [...{
		name!:             string
		args!:             [...string]
		stdin?:            string
		fixture?:          string
		normalizations?:   [...string]
		platform_specific?: bool
	}]
}]
`

type registryFile struct {
	Categories []struct {
		Name  string `yaml:"name"`
		Tests []struct {
			Name             string   `yaml:"name"`
			Args             []string `yaml:"args"`
			Stdin            *string  `yaml:"stdin"`
			Fixture          *string  `yaml:"fixture"`
			Normalizations   []string `yaml:"normalizations"`
			PlatformSpecific bool     `yaml:"platform_specific"`
		} `yaml:"tests"`
	} `yaml:"categories"`
}

// Load reads and validates the registry file at path, flattening it into the
// registry's declaration order of test cases.
//
// A missing file is a structural error; callers surface it with exit code 2
// rather than crashing. Returns the os error wrapped so callers can test it
// with errors.Is(err, fs.ErrNotExist).
func Load(path string) ([]TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	if err := validate(data, path); err != nil {
		return nil, err
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}

	var cases []TestCase
	for _, cat := range file.Categories {
		for _, t := range cat.Tests {
			cases = append(cases, TestCase{
				Name:             t.Name,
				Category:         cat.Name,
				Args:             t.Args,
				Stdin:            t.Stdin,
				Fixture:          t.Fixture,
				Normalizations:   t.Normalizations,
				PlatformSpecific: t.PlatformSpecific,
			})
		}
	}
	return cases, nil
}

// validate checks the raw YAML against the embedded CUE schema so malformed
// registries fail with a precise message instead of a partial decode.
func validate(data []byte, path string) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(registrySchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile registry schema: %w", err)
	}
	if err := cueyaml.Validate(data, schema); err != nil {
		return fmt.Errorf("invalid registry %s: %w", path, err)
	}
	return nil
}

// Filter restricts cases by exact category and/or name substring.
// Empty filters match everything. Declaration order is preserved.
func Filter(cases []TestCase, category, pattern string) []TestCase {
	if category == "" && pattern == "" {
		return cases
	}
	var out []TestCase
	for _, tc := range cases {
		if category != "" && tc.Category != category {
			continue
		}
		if pattern != "" && !strings.Contains(tc.Name, pattern) {
			continue
		}
		out = append(out, tc)
	}
	return out
}

// FilterChanged selects the cases whose definition changed since the last
// recording. The selection logic is deliberately a no-op: every case is
// treated as changed, so incremental runs execute the full set. Callers that
// pass --incremental get the full set back, only with the selection step
// made explicit.
func FilterChanged(cases []TestCase, goldenDir string) []TestCase {
	_ = goldenDir
	return cases
}

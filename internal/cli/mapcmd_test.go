package cli

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnidev/golden/internal/registry"
)

func strPtr(s string) *string { return &s }

func mapTestCases() []registry.TestCase {
	return []registry.TestCase{
		{
			Name:     "echo_hello",
			Category: "text",
			Args:     []string{"echo", "hello"},
		},
		{
			Name:           "cat_fixture",
			Category:       "file_ops",
			Args:           []string{"cat", "{file}"},
			Stdin:          strPtr("piped"),
			Fixture:        strPtr("body"),
			Normalizations: []string{"strip_path"},
		},
	}
}

func TestBuildTestMap(t *testing.T) {
	entries := BuildTestMap(mapTestCases())
	require.Len(t, entries, 2)

	assert.Equal(t, "text", entries[0].Category)
	assert.False(t, entries[0].Stdin)
	assert.False(t, entries[0].Fixture)

	assert.Equal(t, "cat_fixture", entries[1].Name)
	assert.True(t, entries[1].Stdin)
	assert.True(t, entries[1].Fixture)
	assert.Equal(t, []string{"strip_path"}, entries[1].Normalizations)
}

func TestFormatMapJSON_Golden(t *testing.T) {
	rendered, err := formatMapJSON(BuildTestMap(mapTestCases()))
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "test_map", []byte(rendered))
}

func TestFormatMapTable(t *testing.T) {
	rendered := formatMapTable(BuildTestMap(mapTestCases()))

	assert.Contains(t, rendered, "CATEGORY")
	assert.Contains(t, rendered, "echo_hello")
	assert.Contains(t, rendered, "cat {file}")
	assert.Contains(t, rendered, "strip_path")
}

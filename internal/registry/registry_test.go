package registry

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRegistry = `categories:
  - name: text
    tests:
      - name: echo_hello
        args: ["echo", "hello"]
      - name: upper_stdin
        args: ["case", "upper"]
        stdin: "hello"
        normalizations: ["strip_trailing_whitespace"]
  - name: file_ops
    tests:
      - name: cat_fixture
        args: ["cat", "{file}"]
        fixture: "line one\nline two\n"
        platform_specific: true
`

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "golden_tests.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cases, err := Load(writeRegistry(t, sampleRegistry))
	require.NoError(t, err)
	require.Len(t, cases, 3)

	assert.Equal(t, "echo_hello", cases[0].Name)
	assert.Equal(t, "text", cases[0].Category)
	assert.Equal(t, []string{"echo", "hello"}, cases[0].Args)
	assert.Nil(t, cases[0].Stdin)
	assert.Nil(t, cases[0].Fixture)
	assert.False(t, cases[0].PlatformSpecific)

	require.NotNil(t, cases[1].Stdin)
	assert.Equal(t, "hello", *cases[1].Stdin)
	assert.Equal(t, []string{"strip_trailing_whitespace"}, cases[1].Normalizations)

	assert.Equal(t, "file_ops", cases[2].Category)
	require.NotNil(t, cases[2].Fixture)
	assert.Equal(t, "line one\nline two\n", *cases[2].Fixture)
	assert.True(t, cases[2].PlatformSpecific)
	assert.Equal(t, "file_ops/cat_fixture", cases[2].ID())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_SchemaViolation(t *testing.T) {
	// args must be a list of strings.
	bad := `categories:
  - name: text
    tests:
      - name: broken
        args: "echo hello"
`
	_, err := Load(writeRegistry(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid registry")
}

func TestLoad_EmptyRegistry(t *testing.T) {
	cases, err := Load(writeRegistry(t, "categories: []\n"))
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestFilter(t *testing.T) {
	cases, err := Load(writeRegistry(t, sampleRegistry))
	require.NoError(t, err)

	t.Run("no filters", func(t *testing.T) {
		assert.Len(t, Filter(cases, "", ""), 3)
	})

	t.Run("by category", func(t *testing.T) {
		got := Filter(cases, "text", "")
		require.Len(t, got, 2)
		assert.Equal(t, "echo_hello", got[0].Name)
	})

	t.Run("by pattern", func(t *testing.T) {
		got := Filter(cases, "", "fixture")
		require.Len(t, got, 1)
		assert.Equal(t, "cat_fixture", got[0].Name)
	})

	t.Run("by both", func(t *testing.T) {
		assert.Empty(t, Filter(cases, "text", "fixture"))
	})
}

func TestFilterChanged_IsNoOp(t *testing.T) {
	cases, err := Load(writeRegistry(t, sampleRegistry))
	require.NoError(t, err)

	// Every case is treated as changed, regardless of golden dir contents.
	got := FilterChanged(cases, t.TempDir())
	assert.Equal(t, cases, got)
}

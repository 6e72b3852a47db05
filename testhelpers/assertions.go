package testhelpers

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. This is useful for test setup code
// where errors are not expected and should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectDirectories asserts the sorted names of the directories directly inside dir.
func ExpectDirectories(t *testing.T, dir string, expected ...string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err, "Failed to list %s", dir)

	actual := []string{}
	for _, e := range entries {
		if e.IsDir() {
			actual = append(actual, e.Name())
		}
	}
	sort.Strings(expected)
	if expected == nil {
		expected = []string{}
	}
	require.Equal(t, expected, actual, "directories in %s", dir)
}

// ExpectFileContains asserts that the file at path exists and contains each substring.
func ExpectFileContains(t *testing.T, path string, substrings ...string) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err, "Failed to read %s", filepath.Base(path))
	for _, s := range substrings {
		require.Contains(t, string(data), s, "%s should contain %q", filepath.Base(path), s)
	}
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	t.Parallel()

	valid := []string{
		"http://www.jvsoftware.com/",
		"https://example.com",
		"example.com",
		"https://my-site.example.org/path/to/page",
	}
	for _, in := range valid {
		require.NoError(t, ValidateURL(in), "expected %q to be valid", in)
	}

	invalid := []string{
		"",
		"not a url",
		"ftp://example.com",
		"http://",
	}
	for _, in := range invalid {
		err := ValidateURL(in)
		require.Error(t, err, "expected %q to be invalid", in)
		require.Equal(t, "Website must have a valid URL format", err.Error())
	}
}

func TestNotEmpty(t *testing.T) {
	t.Parallel()

	validate := NotEmpty("Theme name")
	require.NoError(t, validate("My Shop"))

	err := validate("   ")
	require.Error(t, err)
	require.Equal(t, "Theme name can't be empty", err.Error())
}

func TestIsInteractive_EnvOverride(t *testing.T) {
	t.Setenv("WPSTARTER_NON_INTERACTIVE", "1")
	require.False(t, IsInteractive())
}

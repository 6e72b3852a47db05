package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"wpstarter.dev/wpstarter/testhelpers"
)

func TestConfigCommand(t *testing.T) {
	t.Parallel()

	t.Run("init then show", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, nil)
		cfgPath := filepath.Join(scene.Dir, "conf", "config.yaml")

		output, err := testhelpers.RunBinary(t, scene.Dir, nil, "config", "init", "--config", cfgPath)
		require.NoError(t, err, output)
		require.Contains(t, output, "Wrote "+cfgPath)

		info, err := os.Stat(cfgPath)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0600), info.Mode().Perm())

		output, err = testhelpers.RunBinary(t, scene.Dir, []string{"GITHUB_TOKEN=ghp_secret"}, "config", "show", "--config", cfgPath)
		require.NoError(t, err, output)
		require.Contains(t, output, "author: JV Software")
		require.Contains(t, output, "repo_url: https://github.com/WordPress/WordPress.git")
		require.Contains(t, output, "owner: JV-Software")
		require.Contains(t, output, "********")
		require.NotContains(t, output, "ghp_secret")
	})

	t.Run("init refuses to overwrite", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, nil)
		cfgPath := filepath.Join(scene.Dir, "config.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("author: [broken"), 0600))

		output, err := testhelpers.RunBinary(t, scene.Dir, nil, "config", "init", "--config", cfgPath)
		require.Error(t, err)
		require.Contains(t, output, "--force")

		output, err = testhelpers.RunBinary(t, scene.Dir, nil, "config", "init", "--config", cfgPath, "--force")
		require.NoError(t, err, output)
		testhelpers.ExpectFileContains(t, cfgPath, "author: JV Software")
	})

	t.Run("show reports a broken file", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, nil)
		cfgPath := filepath.Join(scene.Dir, "config.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("retry_attempts: 0\n"), 0600))

		output, err := testhelpers.RunBinary(t, scene.Dir, nil, "config", "show", "--config", cfgPath)
		require.Error(t, err)
		require.Contains(t, output, "retry_attempts must be at least 1")
	})
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewScene(t, nil)

	output, err := testhelpers.RunBinary(t, scene.Dir, nil, "version")
	require.NoError(t, err)
	require.Contains(t, output, "wpstarter dev (commit none, built unknown)")
}

func TestCacheCleanCommand(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewScene(t, nil)
	cache := filepath.Join(scene.Dir, "cache")
	require.NoError(t, scene.WriteFile("cache/WordPress/WordPress/6.3.1/index.php", "<?php"))

	output, err := testhelpers.RunBinary(t, scene.Dir, []string{"WPSTARTER_CACHE_DIR=" + cache}, "cache", "clean")
	require.NoError(t, err, output)
	require.NoDirExists(t, cache)
	require.Contains(t, output, "Removed "+cache)
}

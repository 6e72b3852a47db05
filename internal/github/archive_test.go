package github_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	wperrors "wpstarter.dev/wpstarter/internal/errors"
	githubpkg "wpstarter.dev/wpstarter/internal/github"
	"wpstarter.dev/wpstarter/testhelpers"
)

func newFetcher(t *testing.T, serverURL, token string) (*githubpkg.ArchiveFetcher, string) {
	t.Helper()
	cacheDir := t.TempDir()
	fetcher, err := githubpkg.NewArchiveFetcher(context.Background(), githubpkg.FetcherOptions{
		CacheDir:   cacheDir,
		Token:      token,
		BaseURL:    serverURL,
		Timeout:    5 * time.Second,
		Attempts:   3,
		RetryDelay: time.Millisecond,
	})
	require.NoError(t, err)
	return fetcher, cacheDir
}

func TestArchiveFetcher_Fetch(t *testing.T) {
	t.Parallel()

	config := testhelpers.NewMockGitHubServerConfig()
	config.AddArchive("WordPress", "WordPress", "6.3.1", map[string]string{
		"index.php":                      "<?php",
		"wp-config-sample.php":           "<?php // sample",
		"wp-content/plugins/hello.php":   "<?php // Hello Dolly",
		"wp-content/themes/twenty/a.css": "body{}",
	})
	server := testhelpers.NewMockGitHubServer(t, config)
	fetcher, cacheDir := newFetcher(t, server.URL, "")

	dir, err := fetcher.Fetch(context.Background(), "WordPress", "WordPress", "6.3.1")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cacheDir, "WordPress", "WordPress", "6.3.1"), dir)

	data, err := os.ReadFile(filepath.Join(dir, "wp-content", "plugins", "hello.php"))
	require.NoError(t, err)
	require.Equal(t, "<?php // Hello Dolly", string(data))
	require.FileExists(t, filepath.Join(dir, "index.php"))
	require.FileExists(t, filepath.Join(dir, githubpkg.CompleteMarker))
	require.NoDirExists(t, filepath.Join(dir, "WordPress-WordPress-abc1234"))

	t.Run("second fetch is served from cache", func(t *testing.T) {
		again, err := fetcher.Fetch(context.Background(), "WordPress", "WordPress", "6.3.1")
		require.NoError(t, err)
		require.Equal(t, dir, again)
		require.Equal(t, 1, config.APICalls())
		require.Equal(t, 1, config.DownloadCalls())
	})
}

func TestArchiveFetcher_StaleCacheReplaced(t *testing.T) {
	t.Parallel()

	config := testhelpers.NewMockGitHubServerConfig()
	config.AddArchive("JV-Software", "Startup-WP-Theme", "1.2.0", map[string]string{"style.css": "/* theme */"})
	server := testhelpers.NewMockGitHubServer(t, config)
	fetcher, _ := newFetcher(t, server.URL, "")

	stale := fetcher.CachePath("JV-Software", "Startup-WP-Theme", "1.2.0")
	require.NoError(t, os.MkdirAll(stale, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "partial"), []byte("x"), 0o644))

	dir, err := fetcher.Fetch(context.Background(), "JV-Software", "Startup-WP-Theme", "1.2.0")
	require.NoError(t, err)
	require.NoFileExists(t, filepath.Join(dir, "partial"))
	require.FileExists(t, filepath.Join(dir, "style.css"))
}

func TestArchiveFetcher_Retry(t *testing.T) {
	t.Parallel()

	t.Run("temporary failures are retried", func(t *testing.T) {
		t.Parallel()
		config := testhelpers.NewMockGitHubServerConfig()
		config.AddArchive("o", "r", "1.0.0", map[string]string{"a.txt": "a"})
		config.FailDownloads = 2
		server := testhelpers.NewMockGitHubServer(t, config)
		fetcher, _ := newFetcher(t, server.URL, "")

		dir, err := fetcher.Fetch(context.Background(), "o", "r", "1.0.0")
		require.NoError(t, err)
		require.FileExists(t, filepath.Join(dir, "a.txt"))
		require.Equal(t, 3, config.DownloadCalls())
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		t.Parallel()
		config := testhelpers.NewMockGitHubServerConfig()
		config.AddArchive("o", "r", "1.0.0", map[string]string{"a.txt": "a"})
		config.FailDownloads = 5
		config.DownloadFailStatus = http.StatusForbidden
		server := testhelpers.NewMockGitHubServer(t, config)
		fetcher, _ := newFetcher(t, server.URL, "")

		_, err := fetcher.Fetch(context.Background(), "o", "r", "1.0.0")
		require.Error(t, err)
		var statusErr *wperrors.HTTPStatusError
		require.ErrorAs(t, err, &statusErr)
		require.Equal(t, http.StatusForbidden, statusErr.StatusCode)
		require.Equal(t, 1, config.DownloadCalls())
	})

	t.Run("unknown tag", func(t *testing.T) {
		t.Parallel()
		server := testhelpers.NewMockGitHubServer(t, nil)
		fetcher, _ := newFetcher(t, server.URL, "")

		_, err := fetcher.Fetch(context.Background(), "o", "r", "9.9.9")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to resolve archive of o/r@9.9.9")
	})
}

func TestArchiveFetcher_Token(t *testing.T) {
	t.Parallel()

	config := testhelpers.NewMockGitHubServerConfig()
	config.AddArchive("o", "r", "1.0.0", map[string]string{"a.txt": "a"})
	server := testhelpers.NewMockGitHubServer(t, config)
	fetcher, _ := newFetcher(t, server.URL, "s3cret")

	_, err := fetcher.Fetch(context.Background(), "o", "r", "1.0.0")
	require.NoError(t, err)
	require.Equal(t, []string{"Bearer s3cret"}, config.AuthHeaders())
}

func TestArchiveFetcher_InvalidSegments(t *testing.T) {
	t.Parallel()

	config := testhelpers.NewMockGitHubServerConfig()
	server := testhelpers.NewMockGitHubServer(t, config)
	fetcher, _ := newFetcher(t, server.URL, "")

	cases := []struct{ owner, repo, tag string }{
		{"..", "r", "1.0"},
		{"o", "r/../../etc", "1.0"},
		{"o", "r", "1.0; rm -rf /"},
		{"o", "r", ""},
		{"-o", "r", "1.0"},
	}
	for _, c := range cases {
		_, err := fetcher.Fetch(context.Background(), c.owner, c.repo, c.tag)
		require.ErrorIs(t, err, wperrors.ErrInvalidSegment, "%+v", c)
	}
	require.Zero(t, config.APICalls())
}

func TestParseRepoURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url   string
		owner string
		repo  string
	}{
		{"https://github.com/WordPress/WordPress.git", "WordPress", "WordPress"},
		{"https://github.com/JV-Software/Startup-WP-Theme", "JV-Software", "Startup-WP-Theme"},
		{"git@github.com:JV-Software/Startup-WP-Theme.git", "JV-Software", "Startup-WP-Theme"},
	}
	for _, tt := range tests {
		owner, repo, err := githubpkg.ParseRepoURL(tt.url)
		require.NoError(t, err, tt.url)
		require.Equal(t, tt.owner, owner)
		require.Equal(t, tt.repo, repo)
	}

	for _, bad := range []string{"", "WordPress", "https://github.com/only-owner", "https://github.com/a/b/c"} {
		_, _, err := githubpkg.ParseRepoURL(bad)
		require.Error(t, err, bad)
	}
}

func TestCleanCache(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "cache")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "o", "r", "1.0"), 0o755))

	require.NoError(t, githubpkg.CleanCache(dir))
	require.NoDirExists(t, dir)
	require.NoError(t, githubpkg.CleanCache(dir))
	require.Error(t, githubpkg.CleanCache(""))
}

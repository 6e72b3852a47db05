// Package scenario provides a high-level test scenario that wires a Scene,
// a runtime Context, and mock remote services into the collaborators the
// scaffold action needs.
package scenario

import (
	"bytes"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"wpstarter.dev/wpstarter/internal/actions/scaffold"
	"wpstarter.dev/wpstarter/internal/config"
	"wpstarter.dev/wpstarter/internal/database"
	"wpstarter.dev/wpstarter/internal/git"
	"wpstarter.dev/wpstarter/internal/github"
	"wpstarter.dev/wpstarter/internal/prompt"
	"wpstarter.dev/wpstarter/internal/runtime"
	"wpstarter.dev/wpstarter/internal/secrets"
	"wpstarter.dev/wpstarter/internal/tui"
	"wpstarter.dev/wpstarter/testhelpers"
)

// Release tags published by the mock remotes
const (
	PlatformVersion = "6.3.1"
	ThemeVersion    = "2.1.0"
)

// Scenario represents a high-level test scenario with every remote service mocked
type Scenario struct {
	T       *testing.T
	Scene   *testhelpers.Scene
	Context *runtime.Context
	// Output captures everything written through the context's logger
	Output  *bytes.Buffer

	GitHub  *testhelpers.MockGitHubServerConfig
	Remote  *testhelpers.FakeRemote
	Secrets *testhelpers.MockSecretServer
	Shell   *testhelpers.FakeCommandRunner
	DB      sqlmock.Sqlmock

	archives *github.ArchiveFetcher
	database *database.Provisioner
}

// NewScenario creates a new Scenario with an optional setup function.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()

	scene := testhelpers.NewScene(t, setup)
	output := &bytes.Buffer{}
	splog := tui.NewSplogWithWriter(output, false)

	cfg := config.Defaults()
	cfg.CacheDir = t.TempDir()
	cfg.HTTPTimeout = 5 * time.Second
	cfg.RetryAttempts = 2
	require.NoError(t, cfg.Normalize())

	gh := testhelpers.NewMockGitHubServerConfig()
	gh.AddArchive(cfg.Platform.Owner, cfg.Platform.Repo, PlatformVersion, PlatformFiles())
	gh.AddArchive(cfg.Theme.Owner, cfg.Theme.Repo, ThemeVersion, ThemeFiles())
	server := testhelpers.NewMockGitHubServer(t, gh)

	archives, err := github.NewArchiveFetcher(context.Background(), github.FetcherOptions{
		CacheDir:   cfg.CacheDir,
		BaseURL:    server.URL,
		Timeout:    cfg.HTTPTimeout,
		Attempts:   cfg.RetryAttempts,
		RetryDelay: time.Millisecond,
	})
	require.NoError(t, err)

	remote := testhelpers.NewFakeRemote()
	remote.Tags[cfg.Platform.RepoURL] = []string{"6.2.2", "6.3", PlatformVersion}
	remote.Tags[cfg.Theme.RepoURL] = []string{"2.0.0", ThemeVersion}

	secretServer := testhelpers.NewMockSecretServer(t, testhelpers.SampleAuthKeys)
	cfg.SecretKeyURL = secretServer.URL

	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual),
		sqlmock.MonitorPingsOption(true),
	)
	require.NoError(t, err)
	provisioner := database.NewProvisionerWithOpener(func(string, string) (*sql.DB, error) {
		return db, nil
	})

	return &Scenario{
		T:        t,
		Scene:    scene,
		Context:  runtime.NewContext(context.Background(), cfg, splog),
		Output:   output,
		GitHub:   gh,
		Remote:   remote,
		Secrets:  secretServer,
		Shell:    testhelpers.NewFakeCommandRunner(),
		DB:       mock,
		archives: archives,
		database: provisioner,
	}
}

// Dependencies returns the scaffold collaborators backed by the scenario's mocks
func (s *Scenario) Dependencies(prompter prompt.Prompter) scaffold.Dependencies {
	cfg := s.Context.Config
	return scaffold.Dependencies{
		Prompter: prompter,
		Tags:     git.NewTagResolverWithLister(s.Remote.List),
		Archives: s.archives,
		Secrets: secrets.NewClient(
			secrets.WithURL(cfg.SecretKeyURL),
			secrets.WithTimeout(cfg.HTTPTimeout),
			secrets.WithAttempts(cfg.RetryAttempts),
			secrets.WithRetryDelay(time.Millisecond),
		),
		Database: s.database,
		Shell:    s.Shell,
	}
}

// Options returns scaffold options targeting the scene directory
func (s *Scenario) Options() scaffold.Options {
	return scaffold.Options{Dir: s.Scene.Dir}
}

// ExpectDatabase expects the connection to be opened, name to be created and the connection closed
func (s *Scenario) ExpectDatabase(name string) {
	s.DB.ExpectPing()
	s.DB.ExpectExec(database.CreateStatement(name)).WillReturnResult(sqlmock.NewResult(0, 1))
	s.DB.ExpectClose()
}

// PlatformFiles is a trimmed WordPress release
func PlatformFiles() map[string]string {
	return map[string]string{
		"index.php":                                     "<?php require __DIR__ . '/wp-blog-header.php';",
		"wp-settings.php":                               "<?php // settings",
		"wp-config-sample.php":                          "<?php // sample",
		"wp-content/index.php":                          "<?php // Silence is golden.",
		"wp-content/plugins/hello.php":                  "<?php // Hello Dolly",
		"wp-content/plugins/akismet/akismet.php":        "<?php // Akismet",
		"wp-content/themes/index.php":                   "<?php // Silence is golden.",
		"wp-content/themes/twentytwentythree/style.css": "/* Twenty Twenty-Three */",
		"wp-content/themes/twentytwentyfour/style.css":  "/* Twenty Twenty-Four */",
	}
}

// ThemeFiles is a trimmed starter theme release
func ThemeFiles() map[string]string {
	return map[string]string{
		"style.css":          "/* Theme Name: Startup */",
		"functions.php":      "<?php // functions",
		"build/package.json": `{"name": "startup-wp-theme"}`,
		"build/Gruntfile.js": "module.exports = function(grunt) {};",
	}
}

package scaffold

import (
	"context"
	"fmt"

	"wpstarter.dev/wpstarter/internal/config"
	"wpstarter.dev/wpstarter/internal/git"
	"wpstarter.dev/wpstarter/internal/github"
	"wpstarter.dev/wpstarter/internal/pipeline"
	"wpstarter.dev/wpstarter/internal/tui"
	"wpstarter.dev/wpstarter/internal/utils"
)

func (s *scaffolder) resolvePlatformVersion(ctx context.Context, st *pipeline.State) error {
	version, err := s.resolveVersion(ctx, s.ctx.Config.Platform, s.opts.PlatformVersion)
	if err != nil {
		return err
	}
	s.ctx.Splog.Debug("Using WordPress %s", version)
	return st.Set(FieldPlatformVersion, version)
}

func (s *scaffolder) resolveThemeVersion(ctx context.Context, st *pipeline.State) error {
	version, err := s.resolveVersion(ctx, s.ctx.Config.Theme, s.opts.ThemeVersion)
	if err != nil {
		return err
	}
	s.ctx.Splog.Debug("Using starter theme %s", version)
	return st.Set(FieldStarterThemeVersion, version)
}

// resolveVersion picks the release to install. An exact pin is used as given,
// a constraint is matched against the remote tags, and no pin means the latest tag.
func (s *scaffolder) resolveVersion(ctx context.Context, repo config.RepoConfig, pin string) (string, error) {
	switch {
	case pin == "":
		return s.deps.Tags.LatestTag(ctx, repo.RepoURL)
	case git.IsExactVersion(pin):
		return pin, nil
	default:
		return s.deps.Tags.MatchingTag(ctx, repo.RepoURL, pin)
	}
}

func (s *scaffolder) fetchPlatform(ctx context.Context, st *pipeline.State) error {
	version := st.Get(FieldPlatformVersion)
	repo := s.ctx.Config.Platform

	src, err := s.fetchArchive(ctx, "Getting WordPress v"+version, repo, version)
	if err != nil {
		return err
	}

	s.ctx.Splog.Info("Copying WordPress files")
	return utils.CopyTree(src, s.opts.Dir, github.CompleteMarker)
}

func (s *scaffolder) fetchSecrets(ctx context.Context, st *pipeline.State) error {
	var keys string
	err := tui.RunWithSpinner(ctx, s.ctx.Splog, "Getting auth keys", func(ctx context.Context) error {
		var err error
		keys, err = s.deps.Secrets.Fetch(ctx)
		return err
	})
	if err != nil {
		return err
	}
	return st.Set(FieldAuthKeys, keys)
}

func (s *scaffolder) fetchTheme(ctx context.Context, st *pipeline.State) error {
	version := st.Get(FieldStarterThemeVersion)
	repo := s.ctx.Config.Theme

	src, err := s.fetchArchive(ctx, "Getting starter theme", repo, version)
	if err != nil {
		return err
	}

	s.ctx.Splog.Info("Copying starter theme files")
	return utils.CopyTree(src, themeDir(s.opts.Dir, st.Get(FieldThemeFolder)), github.CompleteMarker)
}

// fetchArchive downloads repo at tag behind a spinner and returns the cached directory
func (s *scaffolder) fetchArchive(ctx context.Context, title string, repo config.RepoConfig, tag string) (string, error) {
	var dir string
	err := tui.RunWithSpinner(ctx, s.ctx.Splog, title, func(ctx context.Context) error {
		var err error
		dir, err = s.deps.Archives.Fetch(ctx, repo.Owner, repo.Repo, tag)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to get %s/%s %s: %w", repo.Owner, repo.Repo, tag, err)
	}
	return dir, nil
}

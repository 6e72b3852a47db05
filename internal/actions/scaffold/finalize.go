package scaffold

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wpstarter.dev/wpstarter/internal/database"
	"wpstarter.dev/wpstarter/internal/pipeline"
)

func (s *scaffolder) createDatabase(ctx context.Context, st *pipeline.State) error {
	s.ctx.Splog.Info("Creating database if it doesn't exist")

	creds := database.Credentials{
		Host:     st.Get(FieldDBHost),
		User:     st.Get(FieldDBUser),
		Password: st.Get(FieldDBPassword),
	}
	return s.deps.Database.CreateIfNotExists(ctx, creds, st.Get(FieldDBName))
}

// finalize installs the theme's build dependencies and runs its build task
func (s *scaffolder) finalize(ctx context.Context, st *pipeline.State) error {
	cfg := s.ctx.Config
	dir := themeBuildDir(s.opts.Dir, st.Get(FieldThemeFolder))

	if s.opts.SkipInstall {
		s.ctx.Splog.Debug("Skipping %q", cfg.InstallCommand)
	} else if err := s.runCommand(ctx, dir, cfg.InstallCommand); err != nil {
		return err
	}

	s.ctx.Splog.Info("Setting up starter theme")
	return s.runCommand(ctx, dir, cfg.BuildCommand)
}

func (s *scaffolder) runCommand(ctx context.Context, dir, command string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return errors.New("empty command")
	}
	if err := s.deps.Shell.Run(ctx, dir, fields[0], fields[1:]...); err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}
	return nil
}

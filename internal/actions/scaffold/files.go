package scaffold

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"wpstarter.dev/wpstarter/internal/pipeline"
	"wpstarter.dev/wpstarter/internal/templates"
	"wpstarter.dev/wpstarter/internal/tui"
	"wpstarter.dev/wpstarter/internal/utils"
)

func (s *scaffolder) templateConfig(_ context.Context, st *pipeline.State) error {
	s.ctx.Splog.Info("Creating wp-config.php file")

	content, err := templates.RenderConfig(templates.ConfigData{
		DBName:      st.Get(FieldDBName),
		DBUser:      st.Get(FieldDBUser),
		DBPassword:  st.Get(FieldDBPassword),
		DBHost:      st.Get(FieldDBHost),
		TablePrefix: st.Get(FieldDBTablePrefix),
		AuthKeys:    st.Get(FieldAuthKeys),
		Debug:       s.opts.Debug,
	})
	if err != nil {
		return err
	}

	// The file holds the database password
	path := filepath.Join(s.opts.Dir, "wp-config.php")
	if err := os.WriteFile(path, content, 0640); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (s *scaffolder) removeDefaultPlugin(_ context.Context, _ *pipeline.State) error {
	removed, err := utils.RemoveFile(filepath.Join(s.opts.Dir, "wp-content", "plugins", "hello.php"))
	if err != nil {
		return err
	}
	if removed {
		s.ctx.Splog.Info("%s hello.php plugin file", tui.ColorRed("delete"))
	}
	return nil
}

func (s *scaffolder) removeDefaultThemes(_ context.Context, _ *pipeline.State) error {
	removed, err := utils.RemoveDirectories(filepath.Join(s.opts.Dir, "wp-content", "themes"))
	for _, name := range removed {
		s.ctx.Splog.Info("%s wp-content/themes/%s", tui.ColorRed("delete"), name)
	}
	return err
}

func (s *scaffolder) replaceThemeManifest(_ context.Context, st *pipeline.State) error {
	buildDir := themeBuildDir(s.opts.Dir, st.Get(FieldThemeFolder))
	path := filepath.Join(buildDir, "package.json")

	if _, err := utils.RemoveFile(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}

	content, err := templates.RenderManifest(templates.ManifestData{
		ThemeName:   st.Get(FieldThemeName),
		ThemeFolder: st.Get(FieldThemeFolder),
		Author:      st.Get(FieldAuthor),
		AuthorURL:   st.Get(FieldAuthorURL),
	})
	if err != nil {
		return err
	}

	s.ctx.Splog.Info("Copying updated package.json file")
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", buildDir, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

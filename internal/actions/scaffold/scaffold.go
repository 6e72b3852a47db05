package scaffold

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"wpstarter.dev/wpstarter/internal/database"
	"wpstarter.dev/wpstarter/internal/pipeline"
	"wpstarter.dev/wpstarter/internal/prompt"
	"wpstarter.dev/wpstarter/internal/runtime"
)

// TagResolver finds release tags of a remote repository
type TagResolver interface {
	LatestTag(ctx context.Context, url string) (string, error)
	MatchingTag(ctx context.Context, url, constraint string) (string, error)
}

// ArchiveFetcher downloads a repository snapshot and returns its local directory
type ArchiveFetcher interface {
	Fetch(ctx context.Context, owner, repo, tag string) (string, error)
}

// SecretSource returns the PHP key definitions for wp-config.php
type SecretSource interface {
	Fetch(ctx context.Context) (string, error)
}

// DatabaseProvisioner creates the project database
type DatabaseProvisioner interface {
	CreateIfNotExists(ctx context.Context, creds database.Credentials, name string) error
}

// CommandRunner runs an external command inside dir
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// Dependencies are the collaborators the steps talk to
type Dependencies struct {
	Prompter prompt.Prompter
	Tags     TagResolver
	Archives ArchiveFetcher
	Secrets  SecretSource
	Database DatabaseProvisioner
	Shell    CommandRunner
}

func (d Dependencies) validate() error {
	var missing []string
	if d.Prompter == nil {
		missing = append(missing, "prompter")
	}
	if d.Tags == nil {
		missing = append(missing, "tag resolver")
	}
	if d.Archives == nil {
		missing = append(missing, "archive fetcher")
	}
	if d.Secrets == nil {
		missing = append(missing, "secret source")
	}
	if d.Database == nil {
		missing = append(missing, "database provisioner")
	}
	if d.Shell == nil {
		missing = append(missing, "command runner")
	}
	if len(missing) > 0 {
		return fmt.Errorf("scaffold is missing collaborators: %v", missing)
	}
	return nil
}

// Options contains options for the new command
type Options struct {
	// Dir is the project root; the platform files land directly inside it
	Dir string
	// PlatformVersion pins the platform release: an exact tag or a semver constraint
	PlatformVersion string
	// ThemeVersion pins the starter theme release the same way
	ThemeVersion string
	// SkipInstall skips the dependency install before the theme build
	SkipInstall bool
	// Debug sets WP_DEBUG in the generated configuration
	Debug bool
}

// Result is what a provisioning run leaves behind
type Result struct {
	Report *pipeline.Report
	State  *pipeline.State
}

// Action provisions a new project in opts.Dir.
// Fatal step failures are returned as *errors.StepError; files already written are left in place.
func Action(ctx *runtime.Context, opts Options, deps Dependencies) (*Result, error) {
	splog := ctx.Splog

	if err := deps.validate(); err != nil {
		return nil, err
	}

	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", opts.Dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	opts.Dir = dir

	p, err := NewPipeline(ctx, opts, deps)
	if err != nil {
		return nil, err
	}

	splog.Debug("Provisioning %s (run %s)", dir, ctx.RunID)
	st := pipeline.NewState()
	report, runErr := p.Run(ctx, st, splog)
	recordReport(ctx, report)

	result := &Result{Report: report, State: st}
	if runErr != nil {
		return result, runErr
	}

	if stepWarned(report, StepFinalize) {
		splog.Tip("Run %q and %q in %s once the tools are available.",
			ctx.Config.InstallCommand, ctx.Config.BuildCommand, themeBuildDir(dir, st.Get(FieldThemeFolder)))
	}
	splog.Newline()
	splog.Success("All done!")
	return result, nil
}

// NewPipeline builds the provisioning plan
func NewPipeline(ctx *runtime.Context, opts Options, deps Dependencies) (*pipeline.Pipeline, error) {
	s := &scaffolder{ctx: ctx, opts: opts, deps: deps}

	return pipeline.New(
		pipeline.Step{
			Name:     StepResolvePlatformVersion,
			Policy:   pipeline.PolicyRecoverable,
			Provides: []pipeline.Field{FieldPlatformVersion},
			Run:      s.resolvePlatformVersion,
		},
		pipeline.Step{
			Name:     StepCollectIdentity,
			Policy:   pipeline.PolicyFatal,
			Provides: []pipeline.Field{FieldAuthor, FieldAuthorURL, FieldThemeName},
			Run:      s.collectIdentity,
		},
		pipeline.Step{
			Name:     StepCollectEnvironment,
			Policy:   pipeline.PolicyFatal,
			Requires: []pipeline.Field{FieldThemeName},
			Provides: []pipeline.Field{FieldThemeFolder, FieldDBName, FieldDBUser, FieldDBPassword, FieldDBHost, FieldDBTablePrefix},
			Run:      s.collectEnvironment,
		},
		pipeline.Step{
			Name:     StepFetchPlatform,
			Policy:   pipeline.PolicyFatal,
			Requires: []pipeline.Field{FieldPlatformVersion},
			Run:      s.fetchPlatform,
		},
		pipeline.Step{
			Name:     StepFetchSecrets,
			Policy:   pipeline.PolicyFatal,
			Provides: []pipeline.Field{FieldAuthKeys},
			Run:      s.fetchSecrets,
		},
		pipeline.Step{
			Name:     StepTemplateConfig,
			Policy:   pipeline.PolicyFatal,
			Requires: []pipeline.Field{FieldAuthKeys, FieldDBName, FieldDBUser, FieldDBPassword, FieldDBHost, FieldDBTablePrefix},
			Run:      s.templateConfig,
		},
		pipeline.Step{
			Name:   StepRemoveDefaultPlugin,
			Policy: pipeline.PolicyBestEffort,
			Run:    s.removeDefaultPlugin,
		},
		pipeline.Step{
			Name:   StepRemoveDefaultThemes,
			Policy: pipeline.PolicyBestEffort,
			Run:    s.removeDefaultThemes,
		},
		pipeline.Step{
			Name:     StepResolveThemeVersion,
			Policy:   pipeline.PolicyRecoverable,
			Provides: []pipeline.Field{FieldStarterThemeVersion},
			Run:      s.resolveThemeVersion,
		},
		pipeline.Step{
			Name:     StepFetchTheme,
			Policy:   pipeline.PolicyFatal,
			Requires: []pipeline.Field{FieldStarterThemeVersion, FieldThemeFolder},
			Run:      s.fetchTheme,
		},
		pipeline.Step{
			Name:     StepReplaceThemeManifest,
			Policy:   pipeline.PolicyFatal,
			Requires: []pipeline.Field{FieldThemeName, FieldThemeFolder, FieldAuthor, FieldAuthorURL},
			Run:      s.replaceThemeManifest,
		},
		pipeline.Step{
			Name:     StepCreateDatabase,
			Policy:   pipeline.PolicyFatal,
			Requires: []pipeline.Field{FieldDBName, FieldDBUser, FieldDBPassword, FieldDBHost},
			Run:      s.createDatabase,
		},
		pipeline.Step{
			Name:     StepFinalize,
			Policy:   pipeline.PolicyBestEffort,
			Requires: []pipeline.Field{FieldThemeFolder},
			Run:      s.finalize,
		},
	)
}

// scaffolder carries what the step functions share. Answers travel through the state only.
type scaffolder struct {
	ctx  *runtime.Context
	opts Options
	deps Dependencies
}

// themeDir is wp-content/themes/<folder> under the project root
func themeDir(root, folder string) string {
	return filepath.Join(root, "wp-content", "themes", folder)
}

func themeBuildDir(root, folder string) string {
	return filepath.Join(themeDir(root, folder), "build")
}

// recordReport writes one structured record per executed step to the log file
func recordReport(ctx *runtime.Context, report *pipeline.Report) {
	if report == nil {
		return
	}
	for _, step := range report.Steps {
		attrs := []any{
			"step", step.Name,
			"policy", step.Policy.String(),
			"status", string(step.Status),
			"duration", step.Duration,
		}
		if step.Err != nil {
			attrs = append(attrs, "error", step.Err.Error())
		}
		ctx.Splog.Record("step finished", attrs...)
	}
}

func stepWarned(report *pipeline.Report, name string) bool {
	for _, step := range report.Steps {
		if step.Name == name {
			return step.Status == pipeline.StatusWarned
		}
	}
	return false
}

package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"wpstarter.dev/wpstarter/internal/actions/scaffold"
	"wpstarter.dev/wpstarter/internal/cli/helpers"
	"wpstarter.dev/wpstarter/internal/database"
	"wpstarter.dev/wpstarter/internal/git"
	"wpstarter.dev/wpstarter/internal/github"
	"wpstarter.dev/wpstarter/internal/prompt"
	"wpstarter.dev/wpstarter/internal/runtime"
	"wpstarter.dev/wpstarter/internal/secrets"
	"wpstarter.dev/wpstarter/internal/shell"
	"wpstarter.dev/wpstarter/internal/utils"
)

// answerFlags maps flag names to the question each one answers
var answerFlags = []struct {
	flag  string
	field string
	usage string
}{
	{"author", string(scaffold.FieldAuthor), "Theme author"},
	{"author-url", string(scaffold.FieldAuthorURL), "Author website"},
	{"theme-name", string(scaffold.FieldThemeName), "Theme name"},
	{"theme-folder", string(scaffold.FieldThemeFolder), "Theme folder name (default: slug of the theme name)"},
	{"db-name", string(scaffold.FieldDBName), "Database name (default: wp_<theme folder>)"},
	{"db-user", string(scaffold.FieldDBUser), "Database user"},
	{"db-password", string(scaffold.FieldDBPassword), "Database password"},
	{"db-host", string(scaffold.FieldDBHost), "Database host"},
	{"db-prefix", string(scaffold.FieldDBTablePrefix), "Database table prefix"},
}

// newNewCmd creates the new command
func newNewCmd() *cobra.Command {
	var (
		opts          scaffold.Options
		noInteractive bool
		answers       = make(map[string]*string, len(answerFlags))
	)

	cmd := &cobra.Command{
		Use:   "new [dir]",
		Short: "Scaffold a WordPress project",
		Long: `Scaffold a WordPress project in dir (default: the current directory).

Every question can be answered with a flag. Unanswered questions are asked
interactively, or take their defaults with --no-interactive.

Examples:
  wpstarter new
  wpstarter new my-shop --theme-name "My Shop" --db-password secret
  wpstarter new --no-interactive --theme-name "My Shop" --platform-version "~6.3"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				opts.Dir = "."
				if len(args) == 1 {
					opts.Dir = args[0]
				}

				interactive := !noInteractive && utils.IsInteractive()
				prompter := newPrompter(collectAnswers(cmd.Flags(), answers), interactive)

				deps, err := newDependencies(ctx, prompter)
				if err != nil {
					return err
				}

				_, err = scaffold.Action(ctx, opts, deps)
				return err
			})
		},
	}

	for _, a := range answerFlags {
		answers[a.flag] = cmd.Flags().String(a.flag, "", a.usage)
	}
	cmd.Flags().StringVar(&opts.PlatformVersion, "platform-version", "", "WordPress release to install: an exact tag or a constraint such as \"~6.3\" (default: latest)")
	cmd.Flags().StringVar(&opts.ThemeVersion, "theme-version", "", "Starter theme release to install (default: latest)")
	cmd.Flags().BoolVar(&opts.SkipInstall, "skip-install", false, "Skip installing the theme's build dependencies")
	cmd.Flags().BoolVar(&opts.Debug, "wp-debug", false, "Enable WP_DEBUG in wp-config.php")
	cmd.Flags().BoolVar(&noInteractive, "no-interactive", false, "Never prompt; unanswered questions take their defaults")

	_ = cmd.RegisterFlagCompletionFunc("platform-version", helpers.CompleteTags(func(ctx *runtime.Context) string {
		return ctx.Config.Platform.RepoURL
	}))
	_ = cmd.RegisterFlagCompletionFunc("theme-version", helpers.CompleteTags(func(ctx *runtime.Context) string {
		return ctx.Config.Theme.RepoURL
	}))

	return cmd
}

// collectAnswers returns the answers given on the command line, keyed by question name.
// A flag set to an empty string still counts as answered.
func collectAnswers(fs *pflag.FlagSet, values map[string]*string) map[string]string {
	out := make(map[string]string)
	for _, a := range answerFlags {
		if fs.Changed(a.flag) {
			out[a.field] = *values[a.flag]
		}
	}
	return out
}

func newPrompter(answers map[string]string, interactive bool) prompt.Prompter {
	if !interactive {
		return prompt.NewPreset(answers, nil)
	}
	return prompt.NewPreset(answers, prompt.NewSurvey())
}

// newDependencies wires the production collaborators from the configuration
func newDependencies(ctx *runtime.Context, prompter prompt.Prompter) (scaffold.Dependencies, error) {
	cfg := ctx.Config

	archives, err := github.NewArchiveFetcher(ctx, github.FetcherOptions{
		CacheDir: cfg.CacheDir,
		Token:    cfg.GitHubToken,
		Timeout:  cfg.HTTPTimeout,
		Attempts: cfg.RetryAttempts,
	})
	if err != nil {
		return scaffold.Dependencies{}, err
	}

	runner := shell.NewRunner()
	runner.Output = ctx.Splog.Writer()

	return scaffold.Dependencies{
		Prompter: prompter,
		Tags:     git.NewTagResolver(),
		Archives: archives,
		Secrets: secrets.NewClient(
			secrets.WithURL(cfg.SecretKeyURL),
			secrets.WithTimeout(cfg.HTTPTimeout),
			secrets.WithAttempts(cfg.RetryAttempts),
		),
		Database: database.NewProvisioner(),
		Shell:    runner,
	}, nil
}

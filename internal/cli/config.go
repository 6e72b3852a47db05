package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"wpstarter.dev/wpstarter/internal/cli/helpers"
	"wpstarter.dev/wpstarter/internal/config"
	"wpstarter.dev/wpstarter/internal/runtime"
	"wpstarter.dev/wpstarter/internal/tui"
)

// newConfigCmd creates the config command
func newConfigCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and inspect the wpstarter configuration",
		Long: `Create and inspect the wpstarter configuration.

Values come from the config file, then WPSTARTER_* environment variables
(e.g. WPSTARTER_CACHE_DIR, WPSTARTER_BUILD_COMMAND). GITHUB_TOKEN is honored
for github_token.

Examples:
  wpstarter config init
  wpstarter config show`,
	}

	cmd.AddCommand(newConfigInitCmd(root))
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

// newConfigInitCmd creates the config init command
func newConfigInitCmd(root *rootFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default values",
		Args:  cobra.NoArgs,
		// Runs without loading the config so a broken file can be replaced
		PersistentPreRunE: func(*cobra.Command, []string) error {
			tui.ConfigureColor()
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := root.configPath
			if path == "" {
				path = config.DefaultPath()
			}

			splog := tui.NewSplogWithWriter(cmd.OutOrStdout(), false)
			if err := config.Init(path, force); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					splog.Tip("Use --force to overwrite it.")
				}
				return err
			}
			splog.Success("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	return cmd
}

// newConfigShowCmd creates the config show command
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				out, err := config.Encode(ctx.Config.Redacted())
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
				return err
			})
		},
	}
}

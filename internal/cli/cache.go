package cli

import (
	"github.com/spf13/cobra"

	"wpstarter.dev/wpstarter/internal/cli/helpers"
	"wpstarter.dev/wpstarter/internal/github"
	"wpstarter.dev/wpstarter/internal/runtime"
)

// newCacheCmd creates the cache command
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage downloaded release archives",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove every cached release archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				if err := github.CleanCache(ctx.Config.CacheDir); err != nil {
					return err
				}
				ctx.Splog.Success("Removed %s", ctx.Config.CacheDir)
				return nil
			})
		},
	})

	return cmd
}

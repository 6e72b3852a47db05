package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wpstarter.dev/wpstarter/internal/cli/helpers"
	"wpstarter.dev/wpstarter/internal/git"
	"wpstarter.dev/wpstarter/internal/runtime"
)

// newTagsCmd creates the tags command
func newTagsCmd() *cobra.Command {
	var (
		constraint string
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "tags <repo-url>",
		Short: "Print the release tag wpstarter would install from a repository",
		Long: `Print the release tag wpstarter would install from a repository.

The latest tag is the last one in lexicographic order, as "new" picks it.

Examples:
  wpstarter tags https://github.com/WordPress/WordPress.git
  wpstarter tags https://github.com/WordPress/WordPress.git --constraint "~6.3"
  wpstarter tags https://github.com/JV-Software/Startup-WP-Theme.git --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				resolver := git.NewTagResolver()
				resolver.SetTimeout(ctx.Config.HTTPTimeout)
				url := args[0]
				out := cmd.OutOrStdout()

				if all {
					refs, err := resolver.ListTags(ctx, url)
					if err != nil {
						return err
					}
					for _, ref := range refs {
						fmt.Fprintln(out, strings.TrimPrefix(ref, "refs/tags/"))
					}
					return nil
				}

				var (
					tag string
					err error
				)
				if constraint != "" {
					tag, err = resolver.MatchingTag(ctx, url, constraint)
				} else {
					tag, err = resolver.LatestTag(ctx, url)
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(out, tag)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&constraint, "constraint", "", "Semver constraint the tag must satisfy")
	cmd.Flags().BoolVar(&all, "all", false, "List every tag instead")

	return cmd
}

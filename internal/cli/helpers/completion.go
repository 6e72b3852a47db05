package helpers

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"wpstarter.dev/wpstarter/internal/git"
	"wpstarter.dev/wpstarter/internal/runtime"
)

// CompleteTags returns a cobra.RegisterFlagCompletionFunc completion that lists
// the release tags of the repository chosen by url.
func CompleteTags(url func(ctx *runtime.Context) string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		ctx, err := runtime.GetContext(cmd.Context())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return listTags(ctx, git.NewTagResolver(), url(ctx), toComplete)
	}
}

func listTags(ctx context.Context, resolver *git.TagResolver, url, prefix string) ([]string, cobra.ShellCompDirective) {
	refs, err := resolver.ListTags(ctx, url)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var tags []string
	for _, ref := range refs {
		tag := strings.TrimPrefix(ref, "refs/tags/")
		if strings.HasPrefix(tag, prefix) {
			tags = append(tags, tag)
		}
	}
	return tags, cobra.ShellCompDirectiveNoFileComp
}

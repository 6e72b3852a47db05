package git_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"

	wperrors "wpstarter.dev/wpstarter/internal/errors"
	"wpstarter.dev/wpstarter/internal/git"
)

func TestParseLatestTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		refs     []string
		expected string
	}{
		{
			name:     "last listed tag wins",
			refs:     []string{"refs/tags/6.2", "refs/tags/6.3", "refs/tags/6.3.1"},
			expected: "6.3.1",
		},
		{
			name:     "ls-remote lines with hashes",
			refs:     []string{"a1b2c3\trefs/tags/6.2.2", "d4e5f6\trefs/tags/6.3.1"},
			expected: "6.3.1",
		},
		{
			name:     "order is lexicographic, not numeric",
			refs:     []string{"refs/tags/6.3.1", "refs/tags/6.10"},
			expected: "6.3.1",
		},
		{
			name:     "unsorted input is sorted first",
			refs:     []string{"refs/tags/4.9", "refs/tags/5.0.1", "refs/tags/3.0"},
			expected: "5.0.1",
		},
		{
			name:     "peeled refs and branches ignored",
			refs:     []string{"refs/heads/master", "refs/tags/1.0.0", "refs/tags/1.0.0^{}", "HEAD"},
			expected: "1.0.0",
		},
		{
			name:     "version extracted from prefixed tag",
			refs:     []string{"refs/tags/v2.1.0"},
			expected: "2.1.0",
		},
		{
			name:     "non-version trailing tag falls back to previous",
			refs:     []string{"refs/tags/1.2.0", "refs/tags/nightly"},
			expected: "1.2.0",
		},
		{
			name:     "multi-digit components",
			refs:     []string{"refs/tags/10.22.333"},
			expected: "10.22.333",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := git.ParseLatestTag(tt.refs)
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestParseLatestTag_NoTags(t *testing.T) {
	t.Parallel()

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		_, err := git.ParseLatestTag(nil)
		require.ErrorIs(t, err, wperrors.ErrNoTags)
	})

	t.Run("only branches", func(t *testing.T) {
		t.Parallel()
		_, err := git.ParseLatestTag([]string{"refs/heads/main"})
		require.ErrorIs(t, err, wperrors.ErrNoTags)
	})

	t.Run("tags without versions", func(t *testing.T) {
		t.Parallel()
		_, err := git.ParseLatestTag([]string{"refs/tags/beta", "refs/tags/nightly"})
		require.ErrorIs(t, err, wperrors.ErrNoTags)
		require.Contains(t, err.Error(), "no version-like tag among 2 tags")
	})
}

func TestResolveConstraint(t *testing.T) {
	t.Parallel()

	refs := []string{"refs/tags/6.2.2", "refs/tags/6.3", "refs/tags/6.3.1", "refs/tags/6.4", "refs/tags/7.0"}

	tests := []struct {
		constraint string
		expected   string
	}{
		{constraint: "~6.3", expected: "6.3.1"},
		{constraint: ">= 6.0, < 7", expected: "6.4"},
		{constraint: "6.2.2", expected: "6.2.2"},
		{constraint: "*", expected: "7.0"},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			t.Parallel()
			got, err := git.ResolveConstraint(refs, tt.constraint)
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}

	t.Run("nothing matches", func(t *testing.T) {
		t.Parallel()
		_, err := git.ResolveConstraint(refs, ">= 8")
		require.ErrorIs(t, err, wperrors.ErrNoTags)
	})

	t.Run("invalid constraint", func(t *testing.T) {
		t.Parallel()
		_, err := git.ResolveConstraint(refs, "not a constraint")
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid version constraint")
	})
}

func TestIsExactVersion(t *testing.T) {
	t.Parallel()
	require.True(t, git.IsExactVersion("6.3.1"))
	require.True(t, git.IsExactVersion("6.3"))
	require.False(t, git.IsExactVersion("~6.3"))
	require.False(t, git.IsExactVersion(">= 6.0"))
}

func tagRefs(names ...string) []*plumbing.Reference {
	hash := plumbing.NewHash("0123456789abcdef0123456789abcdef01234567")
	refs := []*plumbing.Reference{
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("master"), hash),
	}
	for _, n := range names {
		refs = append(refs, plumbing.NewHashReference(plumbing.NewTagReferenceName(n), hash))
	}
	return refs
}

func TestTagResolver_LatestTag(t *testing.T) {
	t.Parallel()

	var gotURL string
	resolver := git.NewTagResolverWithLister(func(ctx context.Context, url string) ([]*plumbing.Reference, error) {
		gotURL = url
		_, hasDeadline := ctx.Deadline()
		require.True(t, hasDeadline, "listing must be bounded by a timeout")
		return tagRefs("6.2", "6.3", "6.3.1"), nil
	})

	version, err := resolver.LatestTag(context.Background(), "https://github.com/WordPress/WordPress.git")
	require.NoError(t, err)
	require.Equal(t, "6.3.1", version)
	require.Equal(t, "https://github.com/WordPress/WordPress.git", gotURL)

	names, err := resolver.ListTags(context.Background(), "https://github.com/WordPress/WordPress.git")
	require.NoError(t, err)
	require.Equal(t, []string{"refs/tags/6.2", "refs/tags/6.3", "refs/tags/6.3.1"}, names)
}

func TestTagResolver_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unreachable remote", func(t *testing.T) {
		t.Parallel()
		resolver := git.NewTagResolverWithLister(func(context.Context, string) ([]*plumbing.Reference, error) {
			return nil, errors.New("authentication required")
		})
		_, err := resolver.LatestTag(context.Background(), "https://example.com/repo.git")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to list tags of https://example.com/repo.git")
	})

	t.Run("remote without tags", func(t *testing.T) {
		t.Parallel()
		resolver := git.NewTagResolverWithLister(func(context.Context, string) ([]*plumbing.Reference, error) {
			return tagRefs(), nil
		})
		_, err := resolver.LatestTag(context.Background(), "https://example.com/repo.git")
		require.ErrorIs(t, err, wperrors.ErrNoTags)
	})

	t.Run("invalid url", func(t *testing.T) {
		t.Parallel()
		resolver := git.NewTagResolverWithLister(func(context.Context, string) ([]*plumbing.Reference, error) {
			t.Fatal("lister must not be called")
			return nil, nil
		})
		_, err := resolver.LatestTag(context.Background(), "--upload-pack=touch /tmp/x")
		require.Error(t, err)
	})

	t.Run("constraint", func(t *testing.T) {
		t.Parallel()
		resolver := git.NewTagResolverWithLister(func(context.Context, string) ([]*plumbing.Reference, error) {
			return tagRefs("1.0.0", "1.1.0", "2.0.0"), nil
		})
		v, err := resolver.MatchingTag(context.Background(), "https://example.com/theme.git", "^1")
		require.NoError(t, err)
		require.Equal(t, "1.1.0", v)
	})
}

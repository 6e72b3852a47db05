package git

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"

	wperrors "wpstarter.dev/wpstarter/internal/errors"
)

// DefaultListTimeout is the default timeout for listing remote refs
const DefaultListTimeout = 2 * time.Minute

// VersionPattern matches the version part of a tag name
var VersionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// RefLister lists the refs advertised by a remote repository
type RefLister func(ctx context.Context, url string) ([]*plumbing.Reference, error)

// TagResolver finds release tags of remote repositories
type TagResolver struct {
	list    RefLister
	timeout time.Duration
}

// NewTagResolver creates a TagResolver that talks to remotes with go-git
func NewTagResolver() *TagResolver {
	return &TagResolver{list: listRemote, timeout: DefaultListTimeout}
}

// NewTagResolverWithLister creates a TagResolver backed by a custom ref lister
func NewTagResolverWithLister(list RefLister) *TagResolver {
	return &TagResolver{list: list, timeout: DefaultListTimeout}
}

// SetTimeout overrides the listing timeout
func (r *TagResolver) SetTimeout(d time.Duration) {
	if d > 0 {
		r.timeout = d
	}
}

// ListTags returns the full tag ref names of a remote, e.g. refs/tags/6.3.1
func (r *TagResolver) ListTags(ctx context.Context, url string) ([]string, error) {
	if err := validateRepoURL(url); err != nil {
		return nil, err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	refs, err := r.list(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags of %s: %w", url, err)
	}

	var names []string
	for _, ref := range refs {
		if ref.Name().IsTag() {
			names = append(names, ref.Name().String())
		}
	}
	return names, nil
}

// LatestTag returns the version of the lexicographically last tag of a remote
func (r *TagResolver) LatestTag(ctx context.Context, url string) (string, error) {
	names, err := r.ListTags(ctx, url)
	if err != nil {
		return "", err
	}
	version, err := ParseLatestTag(names)
	if err != nil {
		return "", fmt.Errorf("%s: %w", url, err)
	}
	return version, nil
}

// MatchingTag returns the highest tag version of a remote that satisfies constraint
func (r *TagResolver) MatchingTag(ctx context.Context, url, constraint string) (string, error) {
	names, err := r.ListTags(ctx, url)
	if err != nil {
		return "", err
	}
	version, err := ResolveConstraint(names, constraint)
	if err != nil {
		return "", fmt.Errorf("%s: %w", url, err)
	}
	return version, nil
}

// ParseLatestTag returns the version substring of the lexicographically last tag
// that contains one. Refs that are not tags and peeled refs are ignored.
func ParseLatestTag(refNames []string) (string, error) {
	tags := sortedTags(refNames)
	if len(tags) == 0 {
		return "", wperrors.ErrNoTags
	}

	for i := len(tags) - 1; i >= 0; i-- {
		if version := VersionPattern.FindString(tags[i]); version != "" {
			return version, nil
		}
	}
	return "", fmt.Errorf("no version-like tag among %d tags: %w", len(tags), wperrors.ErrNoTags)
}

// ResolveConstraint returns the version substring of the highest tag satisfying
// a semver constraint such as "~6.3" or ">= 6.0, < 7".
func ResolveConstraint(refNames []string, constraint string) (string, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return "", fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}

	var (
		best    *semver.Version
		bestRaw string
	)
	for _, tag := range sortedTags(refNames) {
		raw := VersionPattern.FindString(tag)
		if raw == "" {
			continue
		}
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if c.Check(v) && (best == nil || v.GreaterThan(best)) {
			best = v
			bestRaw = raw
		}
	}

	if best == nil {
		return "", fmt.Errorf("no tag satisfies %q: %w", constraint, wperrors.ErrNoTags)
	}
	return bestRaw, nil
}

// IsExactVersion reports whether s is a plain version rather than a constraint
func IsExactVersion(s string) bool {
	return VersionPattern.FindString(s) == s
}

// sortedTags keeps tag refs, drops peeled entries and sorts by name
func sortedTags(refNames []string) []string {
	var tags []string
	for _, name := range refNames {
		name = strings.TrimSpace(name)
		// ls-remote style lines carry the hash first
		if fields := strings.Fields(name); len(fields) > 1 {
			name = fields[len(fields)-1]
		}
		if !strings.HasPrefix(name, "refs/tags/") || strings.HasSuffix(name, "^{}") {
			continue
		}
		tags = append(tags, name)
	}
	sort.Strings(tags)
	return tags
}

// validateRepoURL rejects values that are not usable as a remote URL
func validateRepoURL(url string) error {
	if url == "" {
		return fmt.Errorf("repository URL is empty")
	}
	if strings.HasPrefix(url, "-") || strings.ContainsAny(url, " \t\r\n") {
		return fmt.Errorf("invalid repository URL %q", url)
	}
	return nil
}

// listRemote lists remote refs without cloning
func listRemote(ctx context.Context, url string) ([]*plumbing.Reference, error) {
	remote := gogit.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: "origin",
		URLs: []string{url},
	})
	return remote.ListContext(ctx, &gogit.ListOptions{PeelingOption: gogit.IgnorePeeled})
}

package github

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	wperrors "wpstarter.dev/wpstarter/internal/errors"
)

// segmentPattern matches owner, repository and tag names that are safe in URLs and paths
var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidateSegment rejects owner, repo or tag values that could escape a URL path
// or cache directory, or be read as a command-line flag
func ValidateSegment(kind, value string) error {
	if !segmentPattern.MatchString(value) || strings.Contains(value, "..") || strings.HasPrefix(value, "-") {
		return fmt.Errorf("%w: %s %q", wperrors.ErrInvalidSegment, kind, value)
	}
	return nil
}

// ParseRepoURL extracts owner and repository name from a GitHub URL.
// Supports https://github.com/owner/repo(.git) and git@github.com:owner/repo(.git).
func ParseRepoURL(repoURL string) (owner, repo string, err error) {
	var path string
	switch {
	case strings.HasPrefix(repoURL, "git@"):
		_, after, ok := strings.Cut(repoURL, ":")
		if !ok {
			return "", "", fmt.Errorf("unrecognized repository URL %q", repoURL)
		}
		path = after
	default:
		u, perr := url.Parse(repoURL)
		if perr != nil || u.Host == "" {
			return "", "", fmt.Errorf("unrecognized repository URL %q", repoURL)
		}
		path = u.Path
	}

	parts := strings.Split(strings.Trim(strings.TrimSuffix(strings.Trim(path, "/"), ".git"), "/"), "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("repository URL %q must name exactly owner/repo", repoURL)
	}

	owner, repo = parts[0], parts[1]
	if err := ValidateSegment("owner", owner); err != nil {
		return "", "", err
	}
	if err := ValidateSegment("repo", repo); err != nil {
		return "", "", err
	}
	return owner, repo, nil
}

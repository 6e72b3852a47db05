package github

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	wperrors "wpstarter.dev/wpstarter/internal/errors"
)

const (
	// CompleteMarker is written into a cache entry once extraction finished
	CompleteMarker = ".wpstarter-complete"

	// DefaultTimeout bounds a single archive download attempt
	DefaultTimeout = 60 * time.Second

	// DefaultAttempts is how often a download is tried before giving up
	DefaultAttempts = 3

	maxRedirects = 3
)

// FetcherOptions configures an ArchiveFetcher
type FetcherOptions struct {
	// CacheDir is where extracted archives are kept, as <owner>/<repo>/<tag>
	CacheDir string
	// Token authenticates API calls; empty means anonymous
	Token string
	// BaseURL overrides the API endpoint, mainly for GitHub Enterprise and tests
	BaseURL string
	Timeout time.Duration
	// Attempts is the total number of download tries
	Attempts uint
	// RetryDelay is the base backoff between attempts
	RetryDelay time.Duration
}

// ArchiveFetcher downloads tagged source archives from GitHub and caches their extraction
type ArchiveFetcher struct {
	client     *github.Client
	httpClient *http.Client
	cacheDir   string
	timeout    time.Duration
	attempts   uint
	retryDelay time.Duration
}

// NewArchiveFetcher creates an ArchiveFetcher
func NewArchiveFetcher(ctx context.Context, opts FetcherOptions) (*ArchiveFetcher, error) {
	if opts.CacheDir == "" {
		return nil, errors.New("archive cache directory is not configured")
	}

	httpClient := http.DefaultClient
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: opts.Token},
		)
		httpClient = oauth2.NewClient(ctx, ts)
	}
	client := github.NewClient(httpClient)

	if opts.BaseURL != "" {
		baseURL, err := url.Parse(opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse API base URL %s: %w", opts.BaseURL, err)
		}
		if baseURL.Path == "" || baseURL.Path[len(baseURL.Path)-1] != '/' {
			baseURL.Path += "/"
		}
		client.BaseURL = baseURL
	}

	f := &ArchiveFetcher{
		client:     client,
		httpClient: &http.Client{},
		cacheDir:   opts.CacheDir,
		timeout:    opts.Timeout,
		attempts:   opts.Attempts,
		retryDelay: opts.RetryDelay,
	}
	if f.timeout <= 0 {
		f.timeout = DefaultTimeout
	}
	if f.attempts == 0 {
		f.attempts = DefaultAttempts
	}
	if f.retryDelay <= 0 {
		f.retryDelay = time.Second
	}
	return f, nil
}

// CachePath returns where the extraction of owner/repo@tag lives
func (f *ArchiveFetcher) CachePath(owner, repo, tag string) string {
	return filepath.Join(f.cacheDir, owner, repo, tag)
}

// Fetch returns a local directory holding the contents of owner/repo at tag.
// A complete cached extraction is reused; otherwise the tarball is downloaded
// and unpacked. The returned directory contains CompleteMarker.
func (f *ArchiveFetcher) Fetch(ctx context.Context, owner, repo, tag string) (string, error) {
	for _, seg := range []struct{ kind, value string }{
		{"owner", owner}, {"repo", repo}, {"tag", tag},
	} {
		if err := ValidateSegment(seg.kind, seg.value); err != nil {
			return "", err
		}
	}

	dest := f.CachePath(owner, repo, tag)
	if isComplete(dest) {
		return dest, nil
	}

	// A directory without the marker is a leftover of an interrupted run
	if err := os.RemoveAll(dest); err != nil {
		return "", fmt.Errorf("failed to clear stale cache %s: %w", dest, err)
	}

	link, _, err := f.client.Repositories.GetArchiveLink(ctx, owner, repo, github.Tarball,
		&github.RepositoryContentGetOptions{Ref: tag}, maxRedirects)
	if err != nil {
		return "", fmt.Errorf("failed to resolve archive of %s/%s@%s: %w", owner, repo, tag, err)
	}

	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	err = retry.Do(
		func() error {
			return f.downloadInto(ctx, link.String(), parent, dest)
		},
		retry.Context(ctx),
		retry.Attempts(f.attempts),
		retry.Delay(f.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
	)
	if err != nil {
		return "", fmt.Errorf("failed to download %s/%s@%s: %w", owner, repo, tag, err)
	}
	return dest, nil
}

// downloadInto streams the archive into a scratch directory next to dest and
// renames it into place once fully extracted
func (f *ArchiveFetcher) downloadInto(ctx context.Context, link, parent, dest string) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return retry.Unrecoverable(err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return wperrors.NewHTTPStatusError(link, resp.StatusCode, resp.Status)
	}

	scratch, err := os.MkdirTemp(parent, ".download-*")
	if err != nil {
		return retry.Unrecoverable(err)
	}
	defer os.RemoveAll(scratch)

	if err := extractTarball(resp.Body, scratch); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(scratch, CompleteMarker), []byte(time.Now().UTC().Format(time.RFC3339)), 0o644); err != nil {
		return retry.Unrecoverable(err)
	}
	if err := os.Rename(scratch, dest); err != nil {
		// Another run may have populated dest in the meantime
		if isComplete(dest) {
			return nil
		}
		return retry.Unrecoverable(err)
	}
	return nil
}

func isComplete(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, CompleteMarker))
	return err == nil
}

// isRetryable keeps retrying transport failures and 429/5xx responses
func isRetryable(err error) bool {
	if !retry.IsRecoverable(err) {
		return false
	}
	var statusErr *wperrors.HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return !errors.Is(err, context.Canceled)
}

// CleanCache removes every cached archive. A missing cache is not an error.
func CleanCache(cacheDir string) error {
	if cacheDir == "" {
		return errors.New("archive cache directory is not configured")
	}
	if err := os.RemoveAll(cacheDir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove cache %s: %w", cacheDir, err)
	}
	return nil
}

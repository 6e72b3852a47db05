// Package secrets fetches freshly generated authentication keys and salts for wp-config.php.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"

	wperrors "wpstarter.dev/wpstarter/internal/errors"
)

// DefaultURL is the WordPress.org secret-key service
const DefaultURL = "https://api.wordpress.org/secret-key/1.1/salt/"

const (
	defaultTimeout  = 60 * time.Second
	defaultAttempts = 3
	// maxBodySize caps the response; the real block is a few kilobytes
	maxBodySize = 1 << 20
)

// Client requests secret-key blocks over HTTP
type Client struct {
	url        string
	httpClient *http.Client
	timeout    time.Duration
	attempts   uint
	delay      time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithURL points the client at a different endpoint
func WithURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.url = url
		}
	}
}

// WithTimeout bounds each request attempt
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithAttempts sets the total number of tries
func WithAttempts(n uint) Option {
	return func(c *Client) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// WithRetryDelay sets the base backoff between tries
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.delay = d
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a Client for DefaultURL unless overridden
func NewClient(opts ...Option) *Client {
	c := &Client{
		url:        DefaultURL,
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
		attempts:   defaultAttempts,
		delay:      time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the endpoint the client talks to
func (c *Client) URL() string {
	return c.url
}

// Fetch returns the response body verbatim. Transport errors and 429/5xx
// responses are retried; other non-2xx statuses fail immediately.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	body, err := retry.DoWithData(
		func() (string, error) {
			return c.fetchOnce(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var statusErr *wperrors.HTTPStatusError
			if errors.As(err, &statusErr) {
				return statusErr.Temporary()
			}
			return retry.IsRecoverable(err) && !errors.Is(err, context.Canceled)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to fetch secret keys from %s: %w", c.url, err)
	}
	return body, nil
}

func (c *Client) fetchOnce(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", retry.Unrecoverable(err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return "", wperrors.NewHTTPStatusError(c.url, resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(data), nil
}

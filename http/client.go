// Package http implements the EDGAR collaborators over HTTP: a rate-limited
// client with retries, a document fetcher and a filing index.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/tenk"
)

// DefaultTimeout is the default timeout for a single HTTP request.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies the client to EDGAR, which rejects requests
// without a declared agent and contact address.
const DefaultUserAgent = "tenk/1.0 (admin@example.com)"

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Client performs rate-limited GET requests against EDGAR.
type Client struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	limiter   tenk.RateLimiter
	delays    []time.Duration
	logger    LogFunc
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout for a single request.
// Defaults to DefaultTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLimiter sets the rate limiter consulted before every request.
// Defaults to a HostLimiter at DefaultRequestsPerSecond.
func WithLimiter(l tenk.RateLimiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithRetryDelays sets the delays between attempts. An empty slice disables
// retries.
func WithRetryDelays(delays []time.Duration) Option {
	return func(c *Client) {
		c.delays = delays
	}
}

// WithRetryLogger sets a function called before every retry.
func WithRetryLogger(fn LogFunc) Option {
	return func(c *Client) {
		c.logger = fn
	}
}

// NewClient creates a new Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		delays:    DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.limiter == nil {
		c.limiter = NewHostLimiter(DefaultRequestsPerSecond)
	}

	c.client = &http.Client{
		Timeout: c.timeout,
	}

	return c
}

// Get returns the body at rawURL. Failed requests are retried with backoff,
// except when the resource does not exist or the request is invalid.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	maxAttempts := len(c.delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		body, err := c.get(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !retryable(err) || attempt >= maxAttempts-1 {
			break
		}

		// Check context before sleeping
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if c.logger != nil {
			c.logger("retry %s (attempt %d): %v", rawURL, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.delays[attempt]):
		}
	}

	return nil, lastErr
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, tenk.Errorf(tenk.EINVALID, "invalid URL %q: %v", rawURL, err)
	}

	if err := c.limiter.Wait(ctx, u.Host); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, tenk.Errorf(tenk.EINVALID, "invalid request for %s: %v", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/json,application/xml,text/plain,*/*")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, tenk.Errorf(tenk.ENOTFOUND, "%s not found", rawURL)
	case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusTooManyRequests:
		return nil, tenk.Errorf(tenk.ERATELIMIT, "HTTP %d for %s: check the user agent and request rate", resp.StatusCode, rawURL)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	return body, nil
}

func retryable(err error) bool {
	switch tenk.ErrorCode(err) {
	case tenk.ENOTFOUND, tenk.EINVALID:
		return false
	}
	return true
}

// Package transport is the shared HTTP layer for remote catalogs: token
// authentication, retries on throttling and server errors, and JSON decoding.
package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/modelreg/pkg/constants"
	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication and retries.
type Client struct {
	http       *http.Client
	auth       Authenticator
	token      string
	userAgent  string
	maxRetries int
	backoff    time.Duration
	maxBackoff time.Duration
	logger     *zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the token handed to the authenticator. An empty token
// sends requests unauthenticated.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRetries sets how many times a throttled or failed request is retried
// and the initial backoff between attempts. The backoff doubles per attempt.
func WithRetries(n int, backoff time.Duration) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
		if backoff > 0 {
			c.backoff = backoff
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the logger used for retry events.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a new transport client with the specified authenticator.
func New(auth Authenticator, opts ...Option) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	c := &Client{
		http:       &http.Client{Timeout: DefaultHTTPTimeout},
		auth:       auth,
		maxRetries: constants.MaxRetries,
		backoff:    constants.RetryBackoff,
		maxBackoff: constants.MaxRetryBackoff,
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs an HTTP request with authentication applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.DoWithContext(req.Context(), req)
}

// DoWithContext performs an HTTP request with authentication applied. Requests
// without a body are retried on 429 and 5xx responses and on transport errors,
// up to the configured retry count.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	if c.token != "" {
		c.auth.Apply(req, c.token)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	retries := c.maxRetries
	if req.Body != nil && req.GetBody == nil {
		retries = 0
	}

	wait := c.backoff
	for attempt := 0; ; attempt++ {
		resp, err := c.http.Do(req)
		if attempt >= retries || !shouldRetry(resp, err) || ctx.Err() != nil {
			return resp, err
		}

		event := c.logger.Debug().
			Str("url", req.URL.Redacted()).
			Int("attempt", attempt+1).
			Dur("backoff", wait)
		if err != nil {
			event = event.Err(err)
		} else {
			event = event.Int("status", resp.StatusCode)
			_ = resp.Body.Close()
		}
		event.Msg("Retrying request")

		if err := sleep(ctx, wait); err != nil {
			return nil, errors.WrapResource("request", "url", req.URL.Redacted(), err)
		}
		wait = min(wait*2, c.maxBackoff)

		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, errors.WrapResource("rewind", "request body", req.URL.Redacted(), err)
			}
			req.Body = body
		}
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+url, err)
	}
	return c.DoWithContext(ctx, req)
}

func shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

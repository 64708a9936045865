// Package hub is a client for the Hugging Face Hub model API, limited to the
// calls needed to list and look up model repositories.
package hub

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/agentstation/modelreg/internal/transport"
	"github.com/agentstation/modelreg/pkg/constants"
	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/logging"
)

// ServiceName identifies the hub in API errors.
const ServiceName = "huggingface"

// ModelSummary is one entry of a model listing.
type ModelSummary struct {
	ID          string    `json:"id"`
	Author      string    `json:"author,omitempty"`
	Downloads   int       `json:"downloads"`
	Likes       int       `json:"likes"`
	Tags        []string  `json:"tags,omitempty"`
	PipelineTag string    `json:"pipeline_tag,omitempty"`
	Private     bool      `json:"private"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// Sibling is a file in a model repository.
type Sibling struct {
	Filename string `json:"rfilename"`
}

// ModelInfo is the detail record of one model repository.
type ModelInfo struct {
	ModelSummary
	SHA          string    `json:"sha,omitempty"`
	LastModified time.Time `json:"lastModified,omitempty"`
	Siblings     []Sibling `json:"siblings,omitempty"`
}

// Client talks to the hub. It is safe for concurrent use.
type Client struct {
	baseURL   string
	transport *transport.Client
	cache     *gocache.Cache
	pageLimit int
	logger    *zerolog.Logger
	hasToken  bool

	transportOpts []transport.Option
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another hub endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithToken authenticates requests with a hub access token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.hasToken = token != ""
		c.transportOpts = append(c.transportOpts, transport.WithToken(token))
	}
}

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.transportOpts = append(c.transportOpts, transport.WithHTTPClient(hc))
	}
}

// WithRetries sets the retry count and initial backoff for throttled or
// failing requests.
func WithRetries(n int, backoff time.Duration) Option {
	return func(c *Client) {
		c.transportOpts = append(c.transportOpts, transport.WithRetries(n, backoff))
	}
}

// WithCacheTTL sets how long successful lookups are cached. Zero disables
// caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.cache = nil
			return
		}
		c.cache = gocache.New(ttl, constants.CacheCleanupInterval)
	}
}

// WithPageLimit sets the page size for listings.
func WithPageLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageLimit = n
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a hub client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:   constants.DefaultHubURL,
		cache:     gocache.New(constants.CacheTTL, constants.CacheCleanupInterval),
		pageLimit: 1000,
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	topts := append([]transport.Option{
		transport.WithUserAgent("modelreg"),
		transport.WithLogger(c.logger),
	}, c.transportOpts...)
	c.transport = transport.New(&transport.BearerAuth{}, topts...)
	return c
}

// BaseURL returns the hub endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ModelInfo fetches the repository record for id ("org/name"). Missing
// repositories return an *errors.NotFoundError. Without a token the hub
// answers 401 instead of 404 for repositories it will not show, so that
// counts as not found too; with a token a 401 means the credential was
// rejected and is returned as an *errors.APIError.
func (c *Client) ModelInfo(ctx context.Context, id string) (*ModelInfo, error) {
	if id == "" || !strings.Contains(id, "/") {
		return nil, errors.NewValidationError("id", id, "must be org/name")
	}
	if c.cache != nil {
		if v, ok := c.cache.Get(id); ok {
			c.logger.Debug().Str("model_id", id).Msg("Hub cache hit")
			return v.(*ModelInfo).clone(), nil
		}
	}

	q := url.Values{"expand[]": {"lastModified", "sha", "siblings"}}
	resp, err := c.transport.Get(ctx, transport.BuildURL(c.baseURL, q, "api/models", id))
	if err != nil {
		return nil, errors.WrapAPI(ServiceName, 0, err)
	}
	if resp.StatusCode == http.StatusNotFound || (resp.StatusCode == http.StatusUnauthorized && !c.hasToken) {
		_ = resp.Body.Close()
		return nil, errors.NewNotFoundError("model", id)
	}

	var info ModelInfo
	if err := transport.DecodeResponse(resp, ServiceName, &info); err != nil {
		return nil, err
	}
	if info.ID == "" {
		info.ID = id
	}

	if c.cache != nil {
		c.cache.SetDefault(id, info.clone())
	}
	return &info, nil
}

// clone copies m so cached records never share slices with callers.
func (m *ModelInfo) clone() *ModelInfo {
	out := *m
	out.Tags = slices.Clone(m.Tags)
	out.Siblings = slices.Clone(m.Siblings)
	return &out
}

// Exists reports whether id resolves on the hub. Lookup failures other than
// not found are returned as errors.
func (c *Client) Exists(ctx context.Context, id string) (bool, error) {
	_, err := c.ModelInfo(ctx, id)
	if errors.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

// ListModels lists repositories by author whose name contains search,
// following pagination to the end.
func (c *Client) ListModels(ctx context.Context, author, search string) ([]ModelSummary, error) {
	q := url.Values{"limit": {strconv.Itoa(c.pageLimit)}}
	if author != "" {
		q.Set("author", author)
	}
	if search != "" {
		q.Set("search", search)
	}

	var out []ModelSummary
	next := transport.BuildURL(c.baseURL, q, "api/models")
	for next != "" {
		resp, err := c.transport.Get(ctx, next)
		if err != nil {
			return nil, errors.WrapAPI(ServiceName, 0, err)
		}
		link := resp.Header.Get("Link")

		var page []ModelSummary
		if err := transport.DecodeResponse(resp, ServiceName, &page); err != nil {
			return nil, err
		}
		out = append(out, page...)
		next = nextLink(link)
	}

	c.logger.Debug().
		Str("author", author).
		Str("search", search).
		Int("count", len(out)).
		Msg("Listed hub models")
	return out, nil
}

// nextLink extracts the rel="next" target of an RFC 8288 Link header.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		segs := strings.Split(part, ";")
		if len(segs) < 2 {
			continue
		}
		target := strings.TrimSpace(segs[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, p := range segs[1:] {
			if strings.ReplaceAll(strings.TrimSpace(p), " ", "") == `rel="next"` {
				return target[1 : len(target)-1]
			}
		}
	}
	return ""
}

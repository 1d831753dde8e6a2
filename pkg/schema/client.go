package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonasreimer/schemascope/pkg/httputil"
	"github.com/jonasreimer/schemascope/pkg/observability"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the endpoint or a model doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Client fetches schema documents from an upstream introspection endpoint.
// It handles HTTP requests with response caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http    *http.Client
	cache   *httputil.Cache
	baseURL string
}

// NewClient creates a schema client for the given base URL.
//
// The base URL points at the root of the introspection API, e.g.
// "https://example.com" for endpoints under /api/schema/. Pass a nil cache
// to disable response caching.
func NewClient(baseURL string, cache *httputil.Cache) *Client {
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   cache,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// FetchSchema retrieves the full schema document.
//
// The opts are passed through as query parameters so the upstream applies
// the same filtering as [Schema.Filter] would locally. If refresh is true,
// the cache is bypassed and a fresh request is made.
//
// Returns:
//   - the decoded schema on success
//   - [ErrNotFound] if the endpoint doesn't exist
//   - [ErrNetwork] for HTTP failures after retries are exhausted
func (c *Client) FetchSchema(ctx context.Context, opts FilterOptions, refresh bool) (*Schema, error) {
	u := c.schemaURL(opts)

	var s Schema
	err := c.cached(ctx, "schema:"+u, refresh, &s, func() error {
		return c.getJSON(ctx, u, &s)
	})
	if err != nil {
		return nil, err
	}
	if s.Apps == nil {
		s.Apps = map[string]App{}
	}
	return &s, nil
}

// FetchModel retrieves the detail record for a single model.
//
// Returns [ErrNotFound] when the model doesn't exist upstream.
func (c *Client) FetchModel(ctx context.Context, app, model string, refresh bool) (*Model, error) {
	u := fmt.Sprintf("%s/api/model/%s/%s/", c.baseURL, url.PathEscape(app), url.PathEscape(model))

	var m Model
	err := c.cached(ctx, "model:"+Key(app, model), refresh, &m, func() error {
		return c.getJSON(ctx, u, &m)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: model %s", err, Key(app, model))
		}
		return nil, err
	}
	return &m, nil
}

func (c *Client) schemaURL(opts FilterOptions) string {
	q := url.Values{}
	q.Set("exclude_django", fmt.Sprintf("%t", opts.ExcludeBuiltins))
	if len(opts.Apps) > 0 {
		q.Set("apps", strings.Join(opts.Apps, ","))
	}
	return c.baseURL + "/api/schema/?" + q.Encode()
}

// cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
func (c *Client) cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if c.cache != nil && !refresh {
		if ok, _ := c.cache.Get(key, v); ok {
			return nil
		}
	}
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Set(key, v)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	observability.HTTP().OnRequest(ctx, http.MethodGet, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, req.URL.Host, req.URL.Path, err)
		return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

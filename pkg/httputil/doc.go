// Package httputil provides HTTP utilities for the schema fetch client.
//
// # Overview
//
// This package provides infrastructure used when fetching schema JSON
// from an upstream introspection endpoint:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/schemascope/)
// with configurable TTL. This speeds up repeated renders and reduces load
// on the upstream schema endpoint.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24 * time.Hour)
//	ok, err := cache.Get("schema:prod", &data)  // Check cache
//	if !ok {
//	    data = fetchFromAPI()
//	    cache.Set("schema:prod", data)          // Store for later
//	}
//
// Cache keys should be namespaced by source to avoid collisions.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// It uses exponential backoff, doubling the delay after each attempt:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchSchema(ctx, url)
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/schemascope/
//   - TTL: set by the caller of [NewCache]; 0 means entries never expire
//   - Max attempts: 3 (see [RetryWithBackoff])
//   - Base backoff: 1 second
//
// The cache can be cleared via `schemascope cache clear` or by deleting
// the cache directory.
package httputil

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonasreimer/schemascope/pkg/schema"
)

// IsURL reports whether source names an upstream endpoint rather than a
// local file.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetch loads the schema named by opts.Source and applies the app filter.
// URLs are fetched from the upstream introspection API with retries;
// anything else is read as a local JSON file.
func Fetch(ctx context.Context, opts Options) (*schema.Schema, error) {
	if err := opts.ValidateForFetch(); err != nil {
		return nil, err
	}

	if IsURL(opts.Source) {
		return fetchRemote(ctx, opts)
	}

	s, err := schema.LoadFile(opts.Source)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return s.Filter(opts.FilterOptions()), nil
}

func fetchRemote(ctx context.Context, opts Options) (*schema.Schema, error) {
	// The Runner caches the filtered schema document, so the client runs
	// without its own response cache.
	client := schema.NewClient(baseURL(opts.Source), nil)
	s, err := client.FetchSchema(ctx, opts.FilterOptions(), opts.Refresh)
	if err != nil {
		return nil, err
	}
	// Filter locally as well so file and URL sources behave identically
	// even when the upstream ignores the query parameters.
	return s.Filter(opts.FilterOptions()), nil
}

// baseURL derives the API root from a source URL. A source may name the
// schema endpoint directly; the client appends /api/schema/ itself.
func baseURL(source string) string {
	s := strings.TrimSuffix(source, "/")
	return strings.TrimSuffix(s, "/api/schema")
}

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jonasreimer/schemascope/pkg/cache"
	"github.com/jonasreimer/schemascope/pkg/diagram"
	"github.com/jonasreimer/schemascope/pkg/observability"
	"github.com/jonasreimer/schemascope/pkg/schema"
)

// Cache key types reported to observability hooks.
const (
	keyTypeSchema   = "schema"
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete fetch → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Fetch
	fetchStart := time.Now()
	s, fetchHit, err := r.FetchWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	result.Schema = s
	result.Stats.FetchTime = time.Since(fetchStart)
	result.Stats.AppCount = len(s.Apps)
	result.Stats.ModelCount = s.ModelCount()
	result.CacheInfo.SchemaHit = fetchHit

	// Compute schema hash for cache keys and API responses
	if schemaData, err := json.Marshal(s); err == nil {
		result.SchemaHash = cache.Hash(schemaData)
	}

	r.Logger.Info("fetched schema",
		"apps", result.Stats.AppCount,
		"models", result.Stats.ModelCount,
		"duration", result.Stats.FetchTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, s, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.EdgeCount = len(l.Graph.Edges)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", len(l.Graph.Order),
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// FetchWithCacheInfo loads the schema with caching and returns cache hit info.
func (r *Runner) FetchWithCacheInfo(ctx context.Context, opts Options) (*schema.Schema, bool, error) {
	if err := opts.ValidateForFetch(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// The source string identifies the document; the filter options key
	// separate cache entries per filter combination.
	sourceHash := cache.Hash([]byte(opts.Source))
	cacheKey := r.Keyer.SchemaKey(sourceHash, opts.SchemaKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			s, err := schema.Parse(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeSchema)
				return s, true, nil // Cache hit
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeSchema)

	// Fetch
	fetchStart := time.Now()
	observability.Pipeline().OnFetchStart(ctx, opts.Source)
	s, err := Fetch(ctx, opts)
	if err != nil {
		observability.Pipeline().OnFetchComplete(ctx, opts.Source, 0, time.Since(fetchStart), err)
		return nil, false, err
	}
	observability.Pipeline().OnFetchComplete(ctx, opts.Source, s.ModelCount(), time.Since(fetchStart), nil)

	// Cache the result
	if data, err := json.Marshal(s); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLSchema)
		observability.Cache().OnCacheSet(ctx, keyTypeSchema, len(data))
	}

	return s, false, nil // Cache miss
}

// Fetch is a convenience wrapper that calls FetchWithCacheInfo and discards the cache hit info.
func (r *Runner) Fetch(ctx context.Context, opts Options) (*schema.Schema, error) {
	s, _, err := r.FetchWithCacheInfo(ctx, opts)
	return s, err
}

// LayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, s *schema.Schema, opts Options) (*diagram.Layout, bool, error) {
	r.applyLogger(&opts)

	// Compute cache key
	schemaData, err := json.Marshal(s)
	if err != nil {
		return nil, false, fmt.Errorf("serialize schema for cache key: %w", err)
	}
	schemaHash := cache.Hash(schemaData)
	cacheKey := r.Keyer.LayoutKey(schemaHash, opts.LayoutKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		cached, err := UnmarshalLayout(data)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, keyTypeLayout)
			return cached, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeLayout)

	// Compute layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, s.ModelCount())
	l := GenerateLayout(s)
	observability.Pipeline().OnLayoutComplete(ctx, time.Since(layoutStart), nil)

	// Cache the result
	if data, err := MarshalLayout(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, keyTypeLayout, len(data))
	}

	return l, false, nil // Cache miss
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, s *schema.Schema, opts Options) (*diagram.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, s, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l *diagram.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)

	// Render all formats
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	rendered, err := RenderFromLayout(l, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l *diagram.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

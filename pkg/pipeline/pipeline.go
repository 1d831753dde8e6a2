// Package pipeline provides the core diagram pipeline for Schemascope.
//
// This package implements the complete fetch → layout → render pipeline
// that is shared by the CLI and the HTTP server. Centralizing it keeps
// caching and option handling identical across all entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Fetch: Load the schema from a local JSON file or an upstream URL
//  2. Layout: Build the graph, assign the grid, and route every edge
//  3. Render: Generate output in various formats (SVG, PNG, PDF, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  "https://example.com/api/schema/",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Fetch only
//	s, err := runner.Fetch(ctx, opts)
//
//	// Layout with an existing schema
//	l, err := runner.Layout(ctx, s, opts)
//
//	// Render with an existing layout
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jonasreimer/schemascope/pkg/cache"
	"github.com/jonasreimer/schemascope/pkg/diagram"
	"github.com/jonasreimer/schemascope/pkg/schema"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// DefaultPNGScale is the raster scale factor for PNG output.
const DefaultPNGScale = 2.0

// Options contains all configuration for the diagram pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Fetch options
	Source          string   `json:"source"`
	IncludeBuiltins bool     `json:"include_builtins,omitempty"`
	Apps            []string `json:"apps,omitempty"`
	Refresh         bool     `json:"refresh,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	PNGScale    float64  `json:"png_scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Schema is the fetched, filtered schema.
	Schema *schema.Schema

	// SchemaHash is the content hash of the filtered schema.
	SchemaHash string

	// Layout is the computed layout (positions and routes).
	Layout *diagram.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	AppCount   int
	ModelCount int
	EdgeCount  int
	FetchTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SchemaHit bool // Whether the schema came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForFetch(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForFetch checks required fields for the fetch stage.
func (o *Options) ValidateForFetch() error {
	if o.Source == "" {
		return fmt.Errorf("source is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// FilterOptions converts the fetch options into the schema filter form.
// Builtin apps are excluded unless IncludeBuiltins is set.
func (o *Options) FilterOptions() schema.FilterOptions {
	return schema.FilterOptions{
		ExcludeBuiltins: !o.IncludeBuiltins,
		Apps:            o.Apps,
	}
}

// SchemaKeyOpts returns cache key options for the fetch stage.
func (o *Options) SchemaKeyOpts() cache.SchemaKeyOpts {
	return cache.SchemaKeyOpts{
		ExcludeBuiltins: !o.IncludeBuiltins,
		Apps:            o.Apps,
	}
}

// LayoutKeyOpts returns cache key options for the layout stage. The grid
// metrics are compiled in, but they key the cache so that entries from a
// build with different metrics never collide.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		NodeWidth:     diagram.NodeWidth,
		HorizontalGap: diagram.HorizontalGap,
		VerticalGap:   diagram.VerticalGap,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Interactive: o.Interactive}
	if format == FormatPNG {
		opts.Scale = o.PNGScale
	}
	return opts
}

// Package pkg provides the core libraries for Schemascope diagram rendering.
//
// # Overview
//
// Schemascope turns an introspected database schema (apps, models, fields,
// relationships) into an entity-relationship diagram. The pkg directory is
// organized into these areas:
//
//  1. [schema] - Schema model, filtering, and the introspection client
//  2. [diagram] - Hierarchical grid layout and orthogonal edge routing
//  3. [render] - SVG, PNG, PDF, and DOT output
//  4. [pipeline] - Orchestration (fetch → layout → render) with caching
//  5. [cache] / [httputil] - File, redis, and HTTP response caches
//  6. [snapshot] - MongoDB schema archive
//
// # Architecture
//
// The typical data flow through Schemascope:
//
//	Schema JSON (file or introspection API)
//	         ↓
//	    [schema] package (decode + filter)
//	         ↓
//	    [diagram] package (graph, grid placement, edge routing)
//	         ↓
//	    [render] package (SVG/PNG/PDF/DOT output)
//
// The [pipeline] package wires the stages together and is shared by the
// CLI and the HTTP server. The [observability] package exposes optional
// hooks the pipeline and HTTP client report into.
//
// [schema]: https://pkg.go.dev/github.com/jonasreimer/schemascope/pkg/schema
// [diagram]: https://pkg.go.dev/github.com/jonasreimer/schemascope/pkg/diagram
// [render]: https://pkg.go.dev/github.com/jonasreimer/schemascope/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/jonasreimer/schemascope/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/jonasreimer/schemascope/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/jonasreimer/schemascope/pkg/httputil
// [snapshot]: https://pkg.go.dev/github.com/jonasreimer/schemascope/pkg/snapshot
// [observability]: https://pkg.go.dev/github.com/jonasreimer/schemascope/pkg/observability
package pkg

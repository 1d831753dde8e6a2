// Package render turns computed diagram layouts into visual artifacts.
//
// # Overview
//
// The package sits at the end of the diagram pipeline. It provides:
//
//   - SVG entity-relationship diagrams with crow's-foot notation ([RenderSVG])
//   - DOT export and Graphviz rendering ([ToDOT], [RenderDOTSVG])
//   - Generic format conversion (SVG to PDF/PNG via [ToPDF] and [ToPNG])
//
// # SVG Diagrams
//
// [RenderSVG] emits a self-contained SVG document: one box per model with
// its header and field rows, orthogonal relationship paths with rounded
// corners, and crow's-foot markers keyed by relationship type. With
// [WithInteraction] the document embeds CSS and JavaScript for panning,
// wheel zoom, hover highlighting and node dragging, so the file works as a
// standalone interactive diagram in any browser.
//
//	l := diagram.Compute(s)
//	svg := render.RenderSVG(l, render.WithInteraction())
//	pdf, err := render.ToPDF(svg)
//
// # DOT Export
//
// [ToDOT] serializes the relationship graph in Graphviz DOT syntax for use
// with external tooling, and [RenderDOTSVG] renders it to SVG in-process
// through the Graphviz library.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg).
package render

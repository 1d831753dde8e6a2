package pipeline

import (
	"fmt"

	"github.com/jonasreimer/schemascope/pkg/diagram"
	"github.com/jonasreimer/schemascope/pkg/render"
)

// RenderFromLayout renders a layout into every requested format.
func RenderFromLayout(l *diagram.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	// PNG and PDF rasterize the SVG output, so render it once up front.
	var svg []byte
	for _, format := range opts.Formats {
		if format == FormatSVG || format == FormatPNG || format == FormatPDF {
			svg = render.RenderSVG(l, svgOptions(opts)...)
			break
		}
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svg
		case FormatPNG:
			data, err = render.ToPNG(svg, opts.PNGScale)
		case FormatPDF:
			data, err = render.ToPDF(svg)
		case FormatDOT:
			data = []byte(render.ToDOT(l.Graph))
		case FormatJSON:
			data, err = MarshalLayout(l)
		default:
			err = fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderFromLayoutData renders output from serialized layout data. This is
// the entry point when the layout was computed elsewhere (cached, or a
// previous invocation's JSON export).
func RenderFromLayoutData(layoutData []byte, opts Options) (map[string][]byte, error) {
	l, err := UnmarshalLayout(layoutData)
	if err != nil {
		return nil, err
	}
	return RenderFromLayout(l, opts)
}

// svgOptions builds SVG rendering options from pipeline options.
func svgOptions(opts Options) []render.Option {
	var svgOpts []render.Option
	if opts.Interactive {
		svgOpts = append(svgOpts, render.WithInteraction())
	}
	return svgOpts
}

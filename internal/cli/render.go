package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonasreimer/schemascope/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string   // output file path (or base path for multiple formats)
	formats     []string // output formats: "svg", "png", "pdf", "dot", "json"
	layoutFile  string   // render from a saved layout instead of recomputing
	interactive bool     // embed the pan/zoom/hover/drag script in SVG output
	pngScale    float64  // raster scale factor for PNG output
}

// renderCommand creates the render command for generating diagram outputs.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		src        sourceOpts
	)
	opts := renderOpts{
		interactive: true,
		pngScale:    pipeline.DefaultPNGScale,
	}

	cmd := &cobra.Command{
		Use:   "render [source]",
		Short: "Render a schema as an entity-relationship diagram",
		Long: `Render a schema as an entity-relationship diagram.

The render command runs the full pipeline (fetch, layout, render) and
writes one file per requested format. With --layout, a saved layout.json
is rendered directly and the fetch and layout stages are skipped.

Supported formats: svg (default), png, pdf, dot, json.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.layoutFile != "" {
				return c.runRenderLayout(cmd.Context(), opts)
			}
			if len(args) == 0 {
				return fmt.Errorf("a schema source is required unless --layout is given")
			}
			return c.runRender(cmd.Context(), args[0], src, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.layoutFile, "layout", "", "render from a saved layout.json instead of fetching")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", opts.interactive, "embed pan/zoom/hover interaction in SVG output")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", opts.pngScale, "raster scale factor for PNG output")
	src.register(cmd)

	return cmd
}

// runRender executes the full pipeline and writes all artifacts.
func (c *CLI) runRender(ctx context.Context, source string, src sourceOpts, opts renderOpts) error {
	runner, err := c.newRunner(src.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := src.pipelineOptions(source)
	popts.Formats = opts.formats
	popts.Interactive = opts.interactive
	popts.PNGScale = opts.pngScale
	popts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering diagram...")
	spinner.Start()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render diagram: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := renderBasePath(opts.output, source)
	if err := writeArtifacts(result.Artifacts, opts.formats, base); err != nil {
		return err
	}

	printSuccess("Render complete")
	printStats(len(result.Layout.Graph.Order), len(result.Layout.Graph.Edges), result.CacheInfo.RenderHit)
	printNewline()
	printNextStep("Serve", "schemascope serve --source "+source)

	return nil
}

// runRenderLayout renders a saved layout file without fetching.
func (c *CLI) runRenderLayout(ctx context.Context, opts renderOpts) error {
	data, err := os.ReadFile(opts.layoutFile)
	if err != nil {
		return fmt.Errorf("read layout %s: %w", opts.layoutFile, err)
	}

	popts := pipeline.Options{
		Formats:     opts.formats,
		Interactive: opts.interactive,
		PNGScale:    opts.pngScale,
		Logger:      c.Logger,
	}

	artifacts, err := pipeline.RenderFromLayoutData(data, popts)
	if err != nil {
		return fmt.Errorf("render layout: %w", err)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := renderBasePath(opts.output, strings.TrimSuffix(opts.layoutFile, ".layout.json"))
	if err := writeArtifacts(artifacts, opts.formats, base); err != nil {
		return err
	}

	printSuccess("Render complete")
	return nil
}

// writeArtifacts writes one file per format under the base path.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) error {
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// renderBasePath derives the base output path from the output flag and the
// source. If output is empty, the source's extension is stripped; URL
// sources fall back to a fixed name. If output carries a known format
// extension, that extension is stripped.
func renderBasePath(output, source string) string {
	if output == "" {
		if pipeline.IsURL(source) {
			return "schema"
		}
		return strings.TrimSuffix(source, filepath.Ext(source))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

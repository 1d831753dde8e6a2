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

// layoutCommand creates the layout command for computing diagram layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		src    sourceOpts
	)

	cmd := &cobra.Command{
		Use:   "layout [source]",
		Short: "Compute the diagram layout for a schema",
		Long: `Compute the diagram layout for a schema.

The layout command fetches the schema from a file or URL, places every
model on the hierarchical grid, and routes all relationship edges. The
output is a layout.json file (same format as 'render -f json') that can
be rendered to SVG/PNG/PDF using the 'render' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], src, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	src.register(cmd)

	return cmd
}

// runLayout fetches the schema, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, source string, src sourceOpts, output string) error {
	runner, err := c.newRunner(src.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := src.pipelineOptions(source)
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	s, err := runner.Fetch(ctx, opts)
	if err != nil {
		spinner.StopWithError("Fetch failed")
		return fmt.Errorf("fetch schema: %w", err)
	}

	layout, cacheHit, err := runner.LayoutWithCacheInfo(ctx, s, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = layoutOutputPath(source)
	}

	data, err := pipeline.MarshalLayout(layout)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(layout.Graph.Order), len(layout.Graph.Edges), cacheHit)
	printNewline()
	printNextStep("Render", "schemascope render --layout "+outputPath+" "+source)

	return nil
}

// layoutOutputPath derives the default layout file name from the source.
// File sources drop their extension; URL sources fall back to a fixed name.
func layoutOutputPath(source string) string {
	if pipeline.IsURL(source) {
		return "schema.layout.json"
	}
	base := strings.TrimSuffix(source, filepath.Ext(source))
	return base + ".layout.json"
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// fetchCommand creates the fetch command for loading a schema.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		output string
		src    sourceOpts
	)

	cmd := &cobra.Command{
		Use:   "fetch [source]",
		Short: "Fetch a database schema from a file or introspection endpoint",
		Long: `Fetch a database schema from a file or introspection endpoint.

The source is either a path to a schema JSON file or the base URL of a
running schema API (for example http://localhost:8000). The fetched
schema is filtered and written as indented JSON to the output file, or
to stdout when no output is given.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd.Context(), args[0], src, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	src.register(cmd)

	return cmd
}

// runFetch loads the schema and writes it as indented JSON.
func (c *CLI) runFetch(ctx context.Context, source string, src sourceOpts, output string) error {
	runner, err := c.newRunner(src.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := src.pipelineOptions(source)
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Fetching schema...")
	spinner.Start()

	s, cacheHit, err := runner.FetchWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Fetch failed")
		return fmt.Errorf("fetch schema: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize schema: %w", err)
	}

	out, err := openOutput(output)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer out.Close()

	if _, err := out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if output != "" {
		printSuccess("Fetch complete")
		printFile(output)
		printDetail("%d apps · %d models %s", len(s.Apps), s.ModelCount(), cacheLabel(cacheHit))
		printNewline()
		printNextStep("Render", "schemascope render "+source)
	}

	return nil
}

// cacheLabel formats the cache status for detail lines.
func cacheLabel(hit bool) string {
	if hit {
		return styleCached.Render("(" + iconCached + ")")
	}
	return styleComputed.Render("(" + iconFresh + ")")
}

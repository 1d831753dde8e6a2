// Package cli implements the schemascope command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jonasreimer/schemascope/pkg/buildinfo"
	"github.com/jonasreimer/schemascope/pkg/cache"
	"github.com/jonasreimer/schemascope/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "schemascope"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "schemascope",
		Short:        "Schemascope renders database schemas as entity-relationship diagrams",
		Long:         `Schemascope turns an introspected database schema (apps, models, fields, relationships) into an entity-relationship diagram: a hierarchical grid layout with orthogonal edge routing and crow's-foot notation.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/schemascope/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// sourceOpts holds the schema selection flags shared by every command
// that loads a schema.
type sourceOpts struct {
	apps            string
	includeBuiltins bool
	refresh         bool
	noCache         bool
}

// register adds the shared schema flags to a command.
func (o *sourceOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.apps, "apps", "", "comma-separated app labels to include (default: all)")
	cmd.Flags().BoolVar(&o.includeBuiltins, "include-builtins", false, "include framework builtin apps (admin, auth, ...)")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "bypass caches and fetch fresh data")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the pipeline cache entirely")
}

// pipelineOptions builds pipeline options for a source.
func (o *sourceOpts) pipelineOptions(source string) pipeline.Options {
	return pipeline.Options{
		Source:          source,
		IncludeBuiltins: o.includeBuiltins,
		Apps:            splitList(o.apps),
		Refresh:         o.refresh,
	}
}

// splitList parses a comma-separated flag value into a slice.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonasreimer/schemascope/internal/server"
	"github.com/jonasreimer/schemascope/pkg/cache"
	"github.com/jonasreimer/schemascope/pkg/pipeline"
	"github.com/jonasreimer/schemascope/pkg/snapshot"
)

// serveCommand creates the serve command for running the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
		source     string
		backend    string
		redisAddr  string
		mongoURI   string
		snapshots  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schema API and diagram over HTTP",
		Long: `Serve the schema API and diagram over HTTP.

The server exposes the schema JSON, per-model detail, and the rendered
diagram SVG. The schema source is a file path or an upstream URL, set
with --source or in the config file.

Settings can be loaded from a TOML config file; flags override file
values. The pipeline cache backend is selectable: file (default),
redis (shared cache for multiple instances), or none. With snapshots
enabled, every fetched schema is archived to MongoDB in the background.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServeConfig(configPath)
			if err != nil {
				return err
			}

			// Flags override file values.
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Listen = addr
			}
			if flags.Changed("source") {
				cfg.Source = source
			}
			if flags.Changed("cache") {
				cfg.Cache.Backend = backend
			}
			if flags.Changed("redis-addr") {
				cfg.Cache.RedisAddr = redisAddr
			}
			if flags.Changed("mongo-uri") {
				cfg.Snapshots.MongoURI = mongoURI
			}
			if flags.Changed("snapshots") {
				cfg.Snapshots.Enabled = snapshots
			}

			if err := cfg.validate(); err != nil {
				return err
			}
			if cfg.Source == "" {
				return fmt.Errorf("a schema source is required (--source or config file)")
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	cmd.Flags().StringVar(&source, "source", "", "schema source (file path or URL)")
	cmd.Flags().StringVar(&backend, "cache", cacheBackendFile, "cache backend: file, redis, none")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "redis address for the redis cache backend")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "mongodb://localhost:27017", "mongodb URI for the snapshot archive")
	cmd.Flags().BoolVar(&snapshots, "snapshots", false, "archive fetched schemas to MongoDB")

	return cmd
}

// runServe builds the cache, runner, and optional snapshot recorder,
// then runs the server until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, cfg serveConfig) error {
	store, err := c.newServeCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	var opts []server.Option
	if cfg.Snapshots.Enabled {
		archive, err := snapshot.NewMongoArchive(ctx, cfg.Snapshots.MongoURI, cfg.Snapshots.Database, cfg.Snapshots.Collection)
		if err != nil {
			return fmt.Errorf("connect snapshot archive: %w", err)
		}
		defer archive.Close(context.Background())

		rec := snapshot.NewRecorder(archive, c.Logger)
		defer rec.Close()
		opts = append(opts, server.WithRecorder(rec))
	}

	srv := server.New(cfg.Source, runner, c.Logger, opts...)
	c.Logger.Info("starting server", "addr", cfg.Listen, "source", cfg.Source, "cache", cfg.Cache.Backend)
	return srv.ListenAndServe(ctx, cfg.Listen)
}

// newServeCache builds the cache backend selected in the config.
func (c *CLI) newServeCache(ctx context.Context, cfg cacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case cacheBackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
	case cacheBackendNone:
		return cache.NewNullCache(), nil
	default:
		return newCache(false)
	}
}

package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Cache backend names accepted by the serve command and config file.
const (
	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
	cacheBackendNone  = "none"
)

// serveConfig is the TOML configuration for the serve command. Flags
// override values loaded from the file.
type serveConfig struct {
	Listen string `toml:"listen"`
	Source string `toml:"source"`

	Cache     cacheConfig    `toml:"cache"`
	Snapshots snapshotConfig `toml:"snapshots"`
}

// cacheConfig selects the pipeline cache backend.
type cacheConfig struct {
	Backend   string `toml:"backend"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
}

// snapshotConfig controls the schema snapshot archive.
type snapshotConfig struct {
	Enabled    bool   `toml:"enabled"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// defaultServeConfig returns the configuration used when no file and no
// flags are given.
func defaultServeConfig() serveConfig {
	return serveConfig{
		Listen: ":8000",
		Cache: cacheConfig{
			Backend:   cacheBackendFile,
			RedisAddr: "localhost:6379",
		},
		Snapshots: snapshotConfig{
			MongoURI:   "mongodb://localhost:27017",
			Database:   appName,
			Collection: "snapshots",
		},
	}
}

// loadServeConfig reads a TOML config file over the defaults. An empty
// path returns the defaults unchanged.
func loadServeConfig(path string) (serveConfig, error) {
	cfg := defaultServeConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// validate checks the backend selection.
func (c *serveConfig) validate() error {
	switch c.Cache.Backend {
	case cacheBackendFile, cacheBackendRedis, cacheBackendNone:
		return nil
	default:
		return fmt.Errorf("invalid cache backend: %q (must be 'file', 'redis', or 'none')", c.Cache.Backend)
	}
}

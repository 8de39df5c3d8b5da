package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/flowmotion/flowmotion/pkg/pipeline"
)

// Cache backend names accepted in the config file.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Config is the on-disk CLI configuration, read from
// ~/.config/flowmotion/config.toml. All fields are optional; the zero
// config selects a file cache, the default frame rate, and no scene store.
type Config struct {
	// FPS is the default frame rate for eval and play.
	FPS float64 `toml:"fps"`

	Cache CacheConfig `toml:"cache"`
	Store StoreConfig `toml:"store"`
	API   APIConfig   `toml:"api"`
}

// CacheConfig selects the pipeline cache backend.
type CacheConfig struct {
	// Backend is "file", "redis", or "none". Defaults to "file".
	Backend string `toml:"backend"`

	// Dir overrides the file cache directory (~/.cache/flowmotion/).
	Dir string `toml:"dir"`

	// RedisAddr is the redis address when Backend is "redis".
	RedisAddr string `toml:"redis_addr"`
}

// StoreConfig configures the scene store used by the serve command.
type StoreConfig struct {
	// MongoURI enables the MongoDB store when set. Empty selects the
	// in-memory store.
	MongoURI string `toml:"mongo_uri"`

	// Database is the MongoDB database name.
	Database string `toml:"database"`
}

// APIConfig configures the serve command.
type APIConfig struct {
	// Addr is the listen address. Defaults to ":8080".
	Addr string `toml:"addr"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		FPS: pipeline.DefaultFPS,
		Cache: CacheConfig{
			Backend:   CacheBackendFile,
			RedisAddr: "localhost:6379",
		},
		API: APIConfig{Addr: ":8080"},
	}
}

// ConfigPath returns the config file location.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadConfig reads the config file, falling back to defaults when the file
// is missing or unreadable. A malformed file is ignored rather than fatal:
// commands must work out of the box.
func LoadConfig() *Config {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg
	}
	if _, err := os.Stat(path); err != nil {
		return cfg
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return DefaultConfig()
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills fields the config file left empty.
func (c *Config) applyDefaults() {
	if c.FPS <= 0 {
		c.FPS = pipeline.DefaultFPS
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheBackendFile
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = "localhost:6379"
	}
	if c.API.Addr == "" {
		c.API.Addr = ":8080"
	}
}

// Package config loads the tool configuration: a TOML file with [server],
// [cache], [log] and [policy] tables, defaults for everything it leaves out,
// and KEYSTONE_* environment overrides applied last.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/cache"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/massing"
)

// Config is the complete tool configuration.
type Config struct {
	Server ServerConfig   `toml:"server"`
	Cache  CacheConfig    `toml:"cache"`
	Log    LogConfig      `toml:"log"`
	Policy massing.Policy `toml:"policy"`
}

// ServerConfig controls the HTTP listen address.
type ServerConfig struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

// Address returns host:port.
func (s ServerConfig) Address() string {
	return s.Host + ":" + s.Port
}

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
	TTL       string `toml:"ttl"`
}

// Expiry parses TTL, falling back to cache.DefaultTTL when it is empty.
func (c CacheConfig) Expiry() (time.Duration, error) {
	if c.TTL == "" {
		return cache.DefaultTTL, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, fmt.Errorf("cache.ttl: %w", err)
	}
	return d, nil
}

// Open builds the configured cache backend.
func (c CacheConfig) Open(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheFile:
		return cache.NewFileCache(c.Dir)
	case CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:   c.RedisAddr,
			DB:     c.RedisDB,
			Prefix: "keystone:",
		})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.Backend)
	}
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: "8080"},
		Cache: CacheConfig{
			Backend:   CacheFile,
			Dir:       defaultCacheDir(),
			RedisAddr: "localhost:6379",
			TTL:       "24h",
		},
		Log:    LogConfig{Level: "info"},
		Policy: massing.DefaultPolicy(),
	}
}

// Load reads the TOML file at path over the defaults and applies the
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("config %s: unknown keys %v", path, undecoded)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Host = envOrDefault("KEYSTONE_HTTP_HOST", c.Server.Host)
	c.Server.Port = envOrDefault("KEYSTONE_HTTP_PORT", c.Server.Port)
	c.Cache.Backend = envOrDefault("KEYSTONE_CACHE", c.Cache.Backend)
	c.Cache.RedisAddr = envOrDefault("KEYSTONE_REDIS_ADDR", c.Cache.RedisAddr)
	c.Log.Level = envOrDefault("KEYSTONE_LOG_LEVEL", c.Log.Level)
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheNone, CacheFile, CacheRedis:
	default:
		return fmt.Errorf("cache.backend %q: want %s, %s or %s", c.Cache.Backend, CacheNone, CacheFile, CacheRedis)
	}
	if _, err := c.Cache.Expiry(); err != nil {
		return err
	}
	if c.Policy.TowerContainment > 1 || c.Policy.WingRetention > 1 {
		return fmt.Errorf("policy shares must not exceed 1")
	}
	return nil
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "keystone")
	}
	return filepath.Join(dir, "keystone")
}

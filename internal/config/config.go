// Package config reads settings from the environment and an optional .env file.
package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/erazemk/zbirka/internal/kv"
)

// Config holds the application configuration.
type Config struct {
	Addr           string
	Backend        string
	DBPath         string
	DataDir        string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisPrefix    string
	LogPath        string
	Owner          string
	ThumbCacheSize int
}

// Load reads .env if present, then ZBIRKA_* variables. Real environment
// variables win over .env entries.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, applying defaults for unset keys.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Addr:          get("ZBIRKA_ADDR", ":8080"),
		Backend:       get("ZBIRKA_BACKEND", kv.BackendSQLite),
		DBPath:        get("ZBIRKA_DB", "zbirka.sqlite3"),
		DataDir:       get("ZBIRKA_DATA_DIR", "zbirka-data"),
		RedisAddr:     get("ZBIRKA_REDIS_ADDR", "localhost:6379"),
		RedisPassword: get("ZBIRKA_REDIS_PASSWORD", ""),
		RedisPrefix:   get("ZBIRKA_REDIS_PREFIX", kv.DefaultRedisPrefix),
		LogPath:       get("ZBIRKA_LOG", ""),
		Owner:         get("ZBIRKA_OWNER", "owner"),
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(get("ZBIRKA_REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("invalid ZBIRKA_REDIS_DB value: %w", err)
	}
	if cfg.ThumbCacheSize, err = strconv.Atoi(get("ZBIRKA_THUMB_CACHE", "256")); err != nil {
		return nil, fmt.Errorf("invalid ZBIRKA_THUMB_CACHE value: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that flags may have overridden.
func (c *Config) Validate() error {
	switch c.Backend {
	case kv.BackendSQLite, kv.BackendFile, kv.BackendBadger, kv.BackendRedis:
	default:
		return fmt.Errorf("unknown backend %q (want sqlite, file, badger or redis)", c.Backend)
	}
	if c.ThumbCacheSize < 1 {
		return fmt.Errorf("thumbnail cache size must be positive, got %d", c.ThumbCacheSize)
	}
	return nil
}

// KVOptions returns the item storage settings. database backs the sqlite
// backend and is otherwise unused.
func (c *Config) KVOptions(database *sql.DB) kv.Options {
	return kv.Options{
		Backend:       c.Backend,
		SQL:           database,
		Dir:           c.DataDir,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		RedisPrefix:   c.RedisPrefix,
	}
}

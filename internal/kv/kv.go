// Package kv provides the flat key-value namespace the collection is persisted in.
//
// Every backend overwrites whole values atomically: a failed or interrupted Set
// leaves the previous value in place.
package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is a flat key-value namespace.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// SQL is the database used by the sqlite backend. It is not closed by the store.
	SQL *sql.DB

	// Dir is the data directory of the file and badger backends. An empty
	// Dir runs badger in memory.
	Dir string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open returns the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		if opts.SQL == nil {
			return nil, fmt.Errorf("sqlite backend requires a database")
		}
		return NewSQLite(opts.SQL), nil
	case BackendFile:
		return NewFile(opts.Dir)
	case BackendBadger:
		return NewBadger(opts.Dir)
	case BackendRedis:
		return NewRedis(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			Prefix:   opts.RedisPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown kv backend %q", opts.Backend)
	}
}

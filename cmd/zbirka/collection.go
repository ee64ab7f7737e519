package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"

	"github.com/erazemk/zbirka/internal/config"
	"github.com/erazemk/zbirka/internal/db"
	"github.com/erazemk/zbirka/internal/kv"
	"github.com/erazemk/zbirka/internal/store"
)

// offlineNote ends the usage of commands that write the item list. A running
// serve keeps its own copy in memory and would overwrite their changes on its
// next write.
const offlineNote = `
  Stop zbirka serve on the same storage first: the server holds the list in
  memory and overwrites changes made behind its back.
`

// storageFlags binds the flags that choose where items are kept. Values from
// the environment are the defaults.
func storageFlags(f *flag.FlagSet, cfg *config.Config) {
	f.StringVar(&cfg.Backend, "backend", cfg.Backend, "item storage backend: sqlite, file, badger or redis")
	f.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	f.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "data directory of the file and badger backends")
	f.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "redis address of the redis backend")
}

// collection is an opened item store with the resources behind it.
type collection struct {
	db    *sql.DB
	kv    kv.Store
	items *store.Store
}

// openDatabase opens the SQLite database and applies the schema.
func openDatabase(path string) (*sql.DB, error) {
	return db.OpenWithSchema(path)
}

// openCollection opens the configured backend and loads the item list. The
// SQLite database is only opened when database is nil and the sqlite backend
// is selected.
func openCollection(ctx context.Context, cfg *config.Config, database *sql.DB) (*collection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &collection{}
	if database == nil && cfg.Backend == kv.BackendSQLite {
		var err error
		if database, err = openDatabase(cfg.DBPath); err != nil {
			return nil, err
		}
		c.db = database
	}

	backing, err := kv.Open(ctx, cfg.KVOptions(database))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("opening %s backend: %w", cfg.Backend, err)
	}
	c.kv = backing

	c.items = store.New(backing)
	c.items.Load(ctx)
	return c, nil
}

// Close releases the backend and any database openCollection opened itself.
func (c *collection) Close() {
	if c.kv != nil {
		c.kv.Close()
	}
	if c.db != nil {
		c.db.Close()
	}
}

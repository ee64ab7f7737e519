package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/zbirka/internal/api"
	"github.com/erazemk/zbirka/internal/config"
	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/store"
)

// purgeInterval is how often expired token revocations are dropped.
const purgeInterval = time.Hour

type serveCmd struct {
	cfg *config.Config
}

func (*serveCmd) Name() string { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the collection over HTTP" }
func (*serveCmd) Usage() string {
	return `zbirka serve [-addr <host:port>] [-db <path>] [-backend <name>] [-owner <name>] [-log <path>]

  Serves the JSON API. On first run the SQLite database is created together
  with an owner account whose generated password is printed once.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	storageFlags(f, c.cfg)
	f.StringVar(&c.cfg.Addr, "addr", c.cfg.Addr, "listen address")
	f.StringVar(&c.cfg.Owner, "owner", c.cfg.Owner, "owner username on first run")
	f.StringVar(&c.cfg.LogPath, "log", c.cfg.LogPath, "log file path (default: stdout/stderr only)")
	f.IntVar(&c.cfg.ThumbCacheSize, "thumb-cache", c.cfg.ThumbCacheSize, "number of thumbnails kept in memory")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", f.Arg(0))
		return subcommands.ExitUsageError
	}
	if err := c.cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return subcommands.ExitUsageError
	}

	closeLog, err := setupLogger(c.cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeLog()

	if err := c.run(ctx); err != nil {
		slog.Error("server failed", "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *serveCmd) run(ctx context.Context) error {
	cfg := c.cfg

	// Check if DB exists, auto-init if not.
	if _, err := os.Stat(cfg.DBPath); errors.Is(err, os.ErrNotExist) {
		password, err := initDatabase(ctx, cfg.DBPath, cfg.Owner)
		if err != nil {
			return fmt.Errorf("initializing database: %w", err)
		}
		printInitResult(cfg.DBPath, cfg.Owner, password)
		fmt.Println()
	}

	database, err := openDatabase(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()
	slog.Info("database ready", "path", cfg.DBPath)

	jwtSecret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		return fmt.Errorf("loading JWT secret: %w", err)
	}

	coll, err := openCollection(ctx, cfg, database)
	if err != nil {
		return err
	}
	defer coll.Close()
	slog.Info("collection loaded", "backend", cfg.Backend, "items", len(coll.items.Items()))

	server := &http.Server{
		Addr: cfg.Addr,
		Handler: api.NewRouter(api.Config{
			DB:             database,
			Items:          coll.items,
			JWTSecret:      jwtSecret,
			ThumbCacheSize: cfg.ThumbCacheSize,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	go purgeRevokedTokens(purgeCtx, database)

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	slog.Info("server stopped, closing storage")
	return nil
}

// purgeRevokedTokens drops revocations of tokens that have expired anyway.
func purgeRevokedTokens(ctx context.Context, database *sql.DB) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.PurgeRevokedTokens(ctx, database, now)
			if err != nil {
				slog.Error("failed to purge revoked tokens", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("purged revoked tokens", "count", n)
			}
		}
	}
}

// initDatabase creates a new database with the schema and an owner account,
// returning the owner's generated password.
func initDatabase(ctx context.Context, path, owner string) (string, error) {
	database, err := openDatabase(path)
	if err != nil {
		return "", err
	}
	defer database.Close()

	fail := func(err error) (string, error) {
		database.Close()
		os.Remove(path)
		return "", err
	}

	password, err := generatePassword(16)
	if err != nil {
		return fail(fmt.Errorf("generating password: %w", err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fail(fmt.Errorf("hashing password: %w", err))
	}

	if _, err := store.CreateUser(ctx, database, owner, string(hash), model.RoleOwner); err != nil {
		return fail(fmt.Errorf("creating owner account: %w", err))
	}
	return password, nil
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, username, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println()
	fmt.Println("Owner account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("It can be changed after logging in.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}

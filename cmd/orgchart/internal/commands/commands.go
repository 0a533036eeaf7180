package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"orgchart/internal/config"
	"orgchart/internal/database"
	"orgchart/internal/handlers"
	"orgchart/internal/hierarchy"
	"orgchart/internal/seed"
	"orgchart/internal/store"
	"orgchart/internal/valkey"
)

// seedLockTTL bounds how long a crashed seeder can hold the Valkey lock.
const seedLockTTL = 2 * time.Minute

var errNeedsPostgres = errors.New("command requires STORE=postgres")

type Globals struct {
	Debug   bool
	Version string
}

// employeeStore is what every backend offers the commands.
type employeeStore interface {
	hierarchy.Source
	seed.Store
	handlers.Pinger
}

// loadConfig reads the configuration and installs the default logger.
func loadConfig(globals *Globals) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	slog.SetDefault(newLogger(os.Stdout, cfg.IsDev(), globals.Debug))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"store", cfg.Store,
		"addr", cfg.Addr(),
		"version", globals.Version,
	)
	return cfg, nil
}

// newLogger outputs text in development and JSON everywhere else.
func newLogger(w io.Writer, dev, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if dev || debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if dev {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// openStore returns the configured employee backend, migrating Postgres
// first. The returned close function is never nil.
func openStore(ctx context.Context, cfg *config.Config) (employeeStore, func(), error) {
	if cfg.Store == config.StoreMemory {
		slog.Warn("using in-memory store, data is lost on exit")
		return store.NewMemoryEmployeeStore(), func() {}, nil
	}

	db, err := connectPostgres(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return store.NewEmployeeStore(db), func() { db.Close() }, nil
}

func connectPostgres(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	opts := database.DefaultOptions()
	opts.MaxOpenConns = cfg.DBMaxOpenConns
	opts.ConnectTimeout = cfg.DBConnectTimeout

	db, err := database.Connect(ctx, cfg.DSN(), opts)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// newSeeder builds a seeder over st, guarded by a Valkey lock when one is
// configured. The returned close function is never nil.
func newSeeder(ctx context.Context, cfg *config.Config, st seed.Store) (*seed.Seeder, func(), error) {
	if !cfg.UseValkey() {
		return seed.New(st), func() {}, nil
	}

	client, err := valkey.ConnectValkey(ctx, cfg.ValkeyAddr, cfg.ValkeyPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to valkey: %w", err)
	}
	locker := valkey.NewLocker(client, valkey.SeedLockKey, seedLockTTL)
	return seed.New(st, seed.WithLocker(locker)), func() { client.Close() }, nil
}

func configureHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    8 * 1024, // 8KiB
	}
}

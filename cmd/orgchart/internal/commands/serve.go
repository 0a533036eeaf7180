package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"orgchart/internal/handlers"
	"orgchart/internal/hierarchy"
	"orgchart/internal/router"
)

// shutdownGrace is how long active requests get to finish on shutdown.
const shutdownGrace = 30 * time.Second

type ServeCmd struct {
	NoSeed bool `help:"Skip seeding on startup (overrides SEED_ENABLED)." default:"false"`
}

func (s *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := loadConfig(globals)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.SeedEnabled && !s.NoSeed {
		seeder, closeSeeder, err := newSeeder(ctx, cfg, st)
		if err != nil {
			return err
		}
		err = seeder.Seed(ctx, cfg.SeedCount, cfg.SeedRandom)
		closeSeeder()
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	r := router.New(router.Options{
		Employees:   handlers.NewEmployees(hierarchy.NewFetcher(st), cfg.FetchTimeout),
		Store:       st,
		MetricsPath: cfg.MetricsPath,
		CORSOrigins: cfg.CORSOrigins,
	})
	srv := configureHTTPServer(cfg.Addr(), r)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests time to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

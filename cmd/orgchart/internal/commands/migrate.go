package commands

import (
	"context"
	"fmt"
	"log/slog"

	"orgchart/internal/config"
	"orgchart/internal/database"
)

type MigrateCmd struct{}

func (m *MigrateCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := loadConfig(globals)
	if err != nil {
		return err
	}
	if cfg.Store != config.StorePostgres {
		return errNeedsPostgres
	}

	db, err := connectPostgres(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	version, err := database.Version(db)
	if err != nil {
		return err
	}
	slog.Info("schema up to date", "version", version)
	return nil
}

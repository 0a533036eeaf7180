package commands

import (
	"context"
	"fmt"
	"log/slog"

	"orgchart/internal/config"
)

type SeedCmd struct {
	Count *int    `help:"Number of employees to generate (defaults to SEED_COUNT)."`
	Seed  *uint64 `help:"Random seed for the structure (defaults to SEED_RANDOM)."`
}

func (s *SeedCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := loadConfig(globals)
	if err != nil {
		return err
	}
	if cfg.Store != config.StorePostgres {
		return errNeedsPostgres
	}

	count, randomSeed := s.resolve(cfg)

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	seeder, closeSeeder, err := newSeeder(ctx, cfg, st)
	if err != nil {
		return err
	}
	defer closeSeeder()

	if err := seeder.Seed(ctx, count, randomSeed); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	slog.Info("seed finished", "count", count, "random_seed", randomSeed)
	return nil
}

// resolve fills flags that were not given from the configuration. An
// explicit zero is kept, so --seed 0 selects seed zero.
func (s *SeedCmd) resolve(cfg *config.Config) (int, uint64) {
	count, randomSeed := cfg.SeedCount, cfg.SeedRandom
	if s.Count != nil {
		count = *s.Count
	}
	if s.Seed != nil {
		randomSeed = *s.Seed
	}
	return count, randomSeed
}

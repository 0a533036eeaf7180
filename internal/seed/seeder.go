// Package seed populates an empty employee store with a deterministic
// synthetic organisation.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"orgchart/internal/hierarchy"
	"orgchart/internal/metrics"
	"orgchart/internal/models"
	"orgchart/internal/store"
)

// ErrInvalidCount is returned when asked to seed fewer than one employee.
var ErrInvalidCount = errors.New("seed: count must be at least 1")

// Store is the persistence the seeder writes through. InsertIfEmpty must
// check for existing rows and insert atomically.
type Store interface {
	InsertIfEmpty(ctx context.Context, generate func() ([]models.Employee, error)) (int, error)
	List(ctx context.Context) ([]models.Employee, error)
}

// Locker serialises seeding across processes. Lock blocks until the lock
// is held and returns the function that releases it.
type Locker interface {
	Lock(ctx context.Context) (unlock func(context.Context) error, err error)
}

// Seeder writes the generated organisation once.
type Seeder struct {
	store  Store
	locker Locker
	names  NameSource

	mu sync.Mutex
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithLocker guards seeding with a distributed lock.
func WithLocker(l Locker) Option {
	return func(s *Seeder) { s.locker = l }
}

// WithNames replaces the clock-seeded name generator.
func WithNames(n NameSource) Option {
	return func(s *Seeder) { s.names = n }
}

// New creates a Seeder writing to st.
func New(st Store, opts ...Option) *Seeder {
	s := &Seeder{store: st}
	for _, opt := range opts {
		opt(s)
	}
	if s.names == nil {
		s.names = NewRandomNames(nil)
	}
	return s
}

// Seed generates count employees from randomSeed and inserts them if the
// store is empty. A populated store is left untouched and is not an error.
func (s *Seeder) Seed(ctx context.Context, count int, randomSeed uint64) error {
	if count < 1 {
		return ErrInvalidCount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx)
		if err != nil {
			return fmt.Errorf("seed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				slog.Warn("seed lock release failed", "error", err)
			}
		}()
	}

	structure := rand.New(rand.NewPCG(randomSeed, randomSeed))
	n, err := s.store.InsertIfEmpty(ctx, func() ([]models.Employee, error) {
		slog.Info("seeding employees", "count", count, "random_seed", randomSeed)
		return Generate(count, structure, s.names)
	})
	switch {
	case errors.Is(err, store.ErrDuplicate):
		// Another process inserted between our check and our write.
		slog.Info("database already seeded", "reason", "concurrent insert")
		return nil
	case err != nil:
		return fmt.Errorf("seed employees: %w", err)
	case n == 0:
		slog.Info("database already seeded")
		return nil
	}

	metrics.AddSeeded(n)
	s.logSummary(ctx, n)
	return nil
}

func (s *Seeder) logSummary(ctx context.Context, inserted int) {
	rows, err := s.store.List(ctx)
	if err != nil {
		slog.Warn("seed summary unavailable", "inserted", inserted, "error", err)
		return
	}

	stats := hierarchy.Summarize(rows)
	slog.Info("database seeded",
		"inserted", inserted,
		"total", stats.Total,
		"roots", stats.Roots,
		"managers", stats.Managers,
		"depth", stats.MaxDepth,
	)
}

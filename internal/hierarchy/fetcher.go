// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package hierarchy fetches an employee together with every transitive
// subordinate and assembles the rows into an in-memory tree.
package hierarchy

import (
	"context"
	"errors"
	"time"

	"orgchart/internal/metrics"
	"orgchart/internal/models"
)

// Source loads the root employee and all of its descendants in one
// set-oriented operation. An unknown root yields an empty slice, not an error.
type Source interface {
	Subtree(ctx context.Context, rootID int64) ([]models.Employee, error)
}

// Fetcher builds subordinate trees from a Source. It holds no per-call
// state and is safe for concurrent use.
type Fetcher struct {
	source Source
}

// NewFetcher returns a Fetcher reading from source.
func NewFetcher(source Source) *Fetcher {
	return &Fetcher{source: source}
}

// Fetch returns the employee rootID with its full subordinate hierarchy.
// It returns ErrNotFound if no such employee exists and a *StorageError
// for any failure below it, including context cancellation.
func (f *Fetcher) Fetch(ctx context.Context, rootID int64) (*Node, error) {
	start := time.Now()

	root, err := f.fetch(ctx, rootID)
	switch {
	case err == nil:
		metrics.ObserveFetch(metrics.FetchOK, time.Since(start), root.Size())
	case errors.Is(err, ErrNotFound):
		metrics.ObserveFetch(metrics.FetchNotFound, time.Since(start), 0)
	default:
		metrics.ObserveFetch(metrics.FetchError, time.Since(start), 0)
	}
	return root, err
}

func (f *Fetcher) fetch(ctx context.Context, rootID int64) (*Node, error) {
	rows, err := f.source.Subtree(ctx, rootID)
	if err != nil {
		return nil, &StorageError{Op: "load subtree", Err: err}
	}
	// A cancelled call never assembles whatever it managed to read.
	if err := ctx.Err(); err != nil {
		return nil, &StorageError{Op: "load subtree", Err: err}
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	root, err := Build(rows, rootID)
	if err != nil {
		return nil, &StorageError{Op: "assemble subtree", Err: err}
	}
	return root, nil
}

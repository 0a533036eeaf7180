// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"orgchart/internal/models"
)

// MemoryEmployeeStore keeps employees in memory together with a
// manager -> subordinates adjacency index. Subtree is a breadth-first
// walk of that index under a read lock.
type MemoryEmployeeStore struct {
	mu       sync.RWMutex
	byID     map[int64]models.Employee
	children map[int64][]int64
}

// NewMemoryEmployeeStore returns an empty in-memory store.
func NewMemoryEmployeeStore() *MemoryEmployeeStore {
	return &MemoryEmployeeStore{
		byID:     make(map[int64]models.Employee),
		children: make(map[int64][]int64),
	}
}

// Subtree returns the employee rootID and all of its transitive
// subordinates, parents before children.
func (s *MemoryEmployeeStore) Subtree(ctx context.Context, rootID int64) ([]models.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	root, ok := s.byID[rootID]
	if !ok {
		return nil, nil
	}

	items := []models.Employee{copyEmployee(root)}
	queue := []int64{rootID}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id := queue[0]
		queue = queue[1:]
		for _, childID := range s.children[id] {
			items = append(items, copyEmployee(s.byID[childID]))
			queue = append(queue, childID)
		}
	}
	return items, nil
}

// List returns every employee ordered by id.
func (s *MemoryEmployeeStore) List(ctx context.Context) ([]models.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Employee, 0, len(s.byID))
	for _, e := range s.byID {
		items = append(items, copyEmployee(e))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// Count returns the number of stored employees.
func (s *MemoryEmployeeStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

// Ping always succeeds.
func (s *MemoryEmployeeStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// InsertIfEmpty writes the rows returned by generate if the store is empty.
// The batch is validated as a whole (unique ids, managers present in the
// batch, every chain ending at a root) before anything is written.
func (s *MemoryEmployeeStore) InsertIfEmpty(ctx context.Context, generate func() ([]models.Employee, error)) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.byID) > 0 {
		return 0, nil
	}

	employees, err := generate()
	if err != nil {
		return 0, fmt.Errorf("generate employees: %w", err)
	}

	batch := make(map[int64]*int64, len(employees))
	for i := range employees {
		e := &employees[i]
		if err := e.Validate(); err != nil {
			return 0, fmt.Errorf("insert employees: %w", err)
		}
		if _, dup := batch[e.ID]; dup {
			return 0, fmt.Errorf("insert employee %d: %w", e.ID, ErrDuplicate)
		}
		batch[e.ID] = e.ManagerID
	}
	for _, e := range employees {
		if e.ManagerID == nil {
			continue
		}
		if _, ok := batch[*e.ManagerID]; !ok {
			return 0, fmt.Errorf("insert employee %d: %w: %d", e.ID, ErrInvalidReference, *e.ManagerID)
		}
	}

	if id, ok := findCycle(batch); ok {
		return 0, fmt.Errorf("insert employee %d: %w", id, ErrCycle)
	}

	for _, e := range employees {
		s.byID[e.ID] = copyEmployee(e)
		if e.ManagerID != nil {
			s.children[*e.ManagerID] = append(s.children[*e.ManagerID], e.ID)
		}
	}
	return len(employees), nil
}

// findCycle walks every manager chain in batch and reports an id whose
// chain never reaches a root. A manager missing from batch ends its chain.
func findCycle(batch map[int64]*int64) (int64, bool) {
	const (
		visiting = 1
		rooted   = 2
	)
	state := make(map[int64]int, len(batch))
	for start := range batch {
		var path []int64
		id := start
		for state[id] == 0 {
			state[id] = visiting
			path = append(path, id)
			manager := batch[id]
			if manager == nil {
				break
			}
			id = *manager
		}
		if state[id] == visiting && batch[id] != nil {
			return id, true
		}
		for _, p := range path {
			state[p] = rooted
		}
	}
	return 0, false
}

// copyEmployee detaches the ManagerID pointer from the caller's row.
func copyEmployee(e models.Employee) models.Employee {
	if e.ManagerID != nil {
		e.ManagerID = models.ManagerRef(*e.ManagerID)
	}
	return e
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

import "errors"

// ErrNotFound is returned by Fetch when no employee has the requested id.
var ErrNotFound = errors.New("employee not found")

// ErrInconsistent marks a result set that does not form a single subtree
// under the requested root, e.g. a row whose manager is missing.
var ErrInconsistent = errors.New("inconsistent hierarchy")

// StorageError wraps any failure of the persistence layer. It is never
// returned for a missing employee; callers map it to a server-side error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "hierarchy: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

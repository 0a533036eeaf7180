// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxNameLen is the column limit on employees.name.
const MaxNameLen = 100

// Employee is a row of the employees table. A nil ManagerID marks a root
// of the hierarchy (a top executive).
type Employee struct {
	ID        int64  `json:"id"`
	ManagerID *int64 `json:"managerId"`
	Name      string `json:"name"`
}

// IsRoot returns true if the employee has no manager.
func (e *Employee) IsRoot() bool {
	return e.ManagerID == nil
}

// Validate checks the row-level constraints enforced by the schema.
func (e *Employee) Validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("employee id must be positive, got %d", e.ID)
	}
	if e.ManagerID != nil && *e.ManagerID == e.ID {
		return fmt.Errorf("employee %d cannot manage itself", e.ID)
	}
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return errors.New("employee name is required")
	}
	if utf8.RuneCountInString(e.Name) > MaxNameLen {
		return fmt.Errorf("employee name is too long (max %d characters)", MaxNameLen)
	}
	return nil
}

// ManagerRef returns a pointer to a copy of id, for building rows with a manager.
func ManagerRef(id int64) *int64 {
	return &id
}

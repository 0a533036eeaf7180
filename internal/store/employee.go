// Package store provides database access methods for employees. The
// Postgres store wraps a *sql.DB; the memory store keeps rows in maps and
// serves the same queries for development and tests.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"orgchart/internal/models"
)

// insertChunkSize bounds the rows per INSERT statement (3 parameters each,
// well under the 65535 bind parameter limit).
const insertChunkSize = 1000

// seedLockKey is the pg_advisory_xact_lock key serialising InsertIfEmpty.
const seedLockKey int64 = 0x6f7267636861 // "orgcha"

// subtreeQuery walks manager_id edges downward from $1 in a single
// recursive pass. Parents are ordered before their subordinates. The path
// column stops the walk if the table ever holds a manager cycle.
const subtreeQuery = `
	WITH RECURSIVE subordinates AS (
		SELECT id, manager_id, name, 0 AS depth, ARRAY[id] AS path
		FROM employees
		WHERE id = $1
		UNION ALL
		SELECT e.id, e.manager_id, e.name, s.depth + 1, s.path || e.id
		FROM employees e
		INNER JOIN subordinates s ON e.manager_id = s.id
		WHERE e.id <> ALL(s.path)
	)
	SELECT id, manager_id, name
	FROM subordinates
	ORDER BY depth, id
`

// EmployeeStore handles all employee-related database operations.
type EmployeeStore struct {
	db *sql.DB
}

// NewEmployeeStore creates a new EmployeeStore with the given database connection.
func NewEmployeeStore(db *sql.DB) *EmployeeStore {
	return &EmployeeStore{db: db}
}

// scanEmployees drains rows of (id, manager_id, name).
func scanEmployees(rows *sql.Rows) ([]models.Employee, error) {
	var items []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.ManagerID, &e.Name); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPostgresError(err)
	}
	return items, nil
}

// Subtree returns the employee rootID and all of its transitive
// subordinates. An unknown rootID yields an empty slice.
func (s *EmployeeStore) Subtree(ctx context.Context, rootID int64) ([]models.Employee, error) {
	rows, err := s.db.QueryContext(ctx, subtreeQuery, rootID)
	if err != nil {
		return nil, fmt.Errorf("query subtree of %d: %w", rootID, mapPostgresError(err))
	}
	defer rows.Close()

	items, err := scanEmployees(rows)
	if err != nil {
		return nil, fmt.Errorf("read subtree of %d: %w", rootID, err)
	}
	return items, nil
}

// List returns every employee ordered by id.
func (s *EmployeeStore) List(ctx context.Context) ([]models.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, manager_id, name FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", mapPostgresError(err))
	}
	defer rows.Close()

	items, err := scanEmployees(rows)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return items, nil
}

// Count returns the number of employee rows.
func (s *EmployeeStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count employees: %w", mapPostgresError(err))
	}
	return count, nil
}

// Ping verifies the database is reachable.
func (s *EmployeeStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// InsertIfEmpty writes the rows returned by generate, but only if the table
// is empty. The emptiness check and the bulk insert run in one transaction
// holding an advisory lock, so concurrent callers cannot both insert.
// It returns the number of rows written, zero when the table had data.
func (s *EmployeeStore) InsertIfEmpty(ctx context.Context, generate func() ([]models.Employee, error)) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", mapPostgresError(err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, seedLockKey); err != nil {
		return 0, fmt.Errorf("acquire seed lock: %w", mapPostgresError(err))
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count employees: %w", mapPostgresError(err))
	}
	if count > 0 {
		return 0, nil
	}

	employees, err := generate()
	if err != nil {
		return 0, fmt.Errorf("generate employees: %w", err)
	}
	batch := make(map[int64]*int64, len(employees))
	for i := range employees {
		if err := employees[i].Validate(); err != nil {
			return 0, fmt.Errorf("insert employees: %w", err)
		}
		batch[employees[i].ID] = employees[i].ManagerID
	}
	if id, ok := findCycle(batch); ok {
		return 0, fmt.Errorf("insert employee %d: %w", id, ErrCycle)
	}

	for start := 0; start < len(employees); start += insertChunkSize {
		end := min(start+insertChunkSize, len(employees))
		if err := insertChunk(ctx, tx, employees[start:end]); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit employees: %w", mapPostgresError(err))
	}
	return len(employees), nil
}

// insertChunk writes employees with one multi-row INSERT.
func insertChunk(ctx context.Context, tx *sql.Tx, employees []models.Employee) error {
	var b strings.Builder
	b.WriteString(`INSERT INTO employees (id, manager_id, name) VALUES `)

	args := make([]any, 0, len(employees)*3)
	for i, e := range employees {
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * 3
		fmt.Fprintf(&b, "($%d, $%d, $%d)", n+1, n+2, n+3)
		args = append(args, e.ID, e.ManagerID, e.Name)
	}

	if _, err := tx.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("insert employees %d..%d: %w",
			employees[0].ID, employees[len(employees)-1].ID, mapPostgresError(err))
	}
	return nil
}

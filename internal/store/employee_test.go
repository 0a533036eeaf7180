// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgchart/internal/models"
)

func newMockStore(t *testing.T) (*EmployeeStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewEmployeeStore(db), mock
}

func employeeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "manager_id", "name"})
}

func TestEmployeeStoreSubtree(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`WITH RECURSIVE subordinates`).
		WithArgs(int64(2)).
		WillReturnRows(employeeRows().
			AddRow(int64(2), int64(1), "Jane Smith").
			AddRow(int64(4), int64(2), "John Brown").
			AddRow(int64(9), int64(4), "Ava Lee"))

	items, err := s.Subtree(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, int64(2), items[0].ID)
	require.NotNil(t, items[0].ManagerID)
	assert.Equal(t, int64(1), *items[0].ManagerID)
	assert.Equal(t, "Jane Smith", items[0].Name)
	assert.Equal(t, int64(4), *items[2].ManagerID)
}

func TestEmployeeStoreSubtreeRootWithoutManager(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`WITH RECURSIVE subordinates`).
		WithArgs(int64(1)).
		WillReturnRows(employeeRows().AddRow(int64(1), nil, "Ceo"))

	items, err := s.Subtree(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].ManagerID)
}

func TestEmployeeStoreSubtreeUnknownRoot(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`WITH RECURSIVE subordinates`).
		WithArgs(int64(999)).
		WillReturnRows(employeeRows())

	items, err := s.Subtree(context.Background(), 999)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestEmployeeStoreSubtreeQueryError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`WITH RECURSIVE subordinates`).
		WithArgs(int64(1)).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.QueryCanceled, Message: "canceling statement"})

	_, err := s.Subtree(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query canceled")

	var pgErr *pgconn.PgError
	assert.ErrorAs(t, err, &pgErr)
}

func TestEmployeeStoreSubtreeRowError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`WITH RECURSIVE subordinates`).
		WithArgs(int64(1)).
		WillReturnRows(employeeRows().
			AddRow(int64(1), nil, "Ceo").
			AddRow(int64(2), int64(1), "A").
			RowError(1, errors.New("connection reset")))

	items, err := s.Subtree(context.Background(), 1)
	require.Error(t, err)
	assert.Nil(t, items, "a failed read must not return a partial subtree")
}

func TestEmployeeStoreSubtreeCancelledContext(t *testing.T) {
	s, _ := newMockStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Subtree(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmployeeStoreList(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id, manager_id, name FROM employees ORDER BY id`).
		WillReturnRows(employeeRows().
			AddRow(int64(1), nil, "Ceo").
			AddRow(int64(2), int64(1), "A"))

	items, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].IsRoot())
	assert.False(t, items[1].IsRoot())
}

func TestEmployeeStoreCount(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM employees`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

func chain(n int) []models.Employee {
	items := make([]models.Employee, 0, n)
	for i := 1; i <= n; i++ {
		e := models.Employee{ID: int64(i), Name: "Employee"}
		if i > 1 {
			e.ManagerID = models.ManagerRef(int64(i - 1))
		}
		items = append(items, e)
	}
	return items
}

func TestInsertIfEmptySkipsPopulatedTable(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(seedLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM employees`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	called := false
	n, err := s.InsertIfEmpty(context.Background(), func() ([]models.Employee, error) {
		called = true
		return chain(3), nil
	})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, called, "generate must not run when the table has rows")
}

func TestInsertIfEmptyWritesRows(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(seedLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM employees`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO employees \(id, manager_id, name\) VALUES \(\$1, \$2, \$3\), \(\$4, \$5, \$6\), \(\$7, \$8, \$9\)`).
		WithArgs(int64(1), nil, "Employee", int64(2), int64(1), "Employee", int64(3), int64(2), "Employee").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	n, err := s.InsertIfEmpty(context.Background(), func() ([]models.Employee, error) {
		return chain(3), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestInsertIfEmptyChunksLargeBatches(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM employees`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO employees`).WillReturnResult(sqlmock.NewResult(0, insertChunkSize))
	mock.ExpectExec(`INSERT INTO employees`).WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	n, err := s.InsertIfEmpty(context.Background(), func() ([]models.Employee, error) {
		return chain(insertChunkSize + 5), nil
	})
	require.NoError(t, err)
	assert.Equal(t, insertChunkSize+5, n)
}

func TestInsertIfEmptyRejectsInvalidRows(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM employees`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	_, err := s.InsertIfEmpty(context.Background(), func() ([]models.Employee, error) {
		return []models.Employee{{ID: 1, Name: ""}}, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestInsertIfEmptyRejectsCycle(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM employees`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	_, err := s.InsertIfEmpty(context.Background(), func() ([]models.Employee, error) {
		return []models.Employee{
			{ID: 1, ManagerID: models.ManagerRef(2), Name: "a"},
			{ID: 2, ManagerID: models.ManagerRef(1), Name: "b"},
		}, nil
	})
	assert.ErrorIs(t, err, ErrCycle)
}

func TestInsertIfEmptyUniqueViolation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM employees`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO employees`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "employees_pkey"})
	mock.ExpectRollback()

	_, err := s.InsertIfEmpty(context.Background(), func() ([]models.Employee, error) {
		return chain(2), nil
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestInsertIfEmptyGenerateError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM employees`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	cause := errors.New("bad count")
	_, err := s.InsertIfEmpty(context.Background(), func() ([]models.Employee, error) {
		return nil, cause
	})
	assert.ErrorIs(t, err, cause)
}

func TestMapPostgresError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		contains string
	}{
		{name: "unique", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, sentinel: ErrDuplicate},
		{name: "foreign key", err: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, sentinel: ErrInvalidReference},
		{name: "check", err: &pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "employees_no_self_manager"}, contains: "constraint violation"},
		{name: "connection", err: &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, contains: "connection error"},
		{name: "shutdown", err: &pgconn.PgError{Code: pgerrcode.AdminShutdown}, contains: "unavailable"},
		{name: "missing table", err: &pgconn.PgError{Code: pgerrcode.UndefinedTable}, contains: "run migrations"},
		{name: "other", err: &pgconn.PgError{Code: pgerrcode.SyntaxError, Message: "syntax error"}, contains: "postgres error [42601]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapPostgresError(tt.err)
			require.Error(t, got)
			assert.ErrorIs(t, got, tt.err)
			if tt.sentinel != nil {
				assert.ErrorIs(t, got, tt.sentinel)
			}
			if tt.contains != "" {
				assert.Contains(t, got.Error(), tt.contains)
			}
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, mapPostgresError(nil))
	})

	t.Run("non postgres error passes through", func(t *testing.T) {
		plain := errors.New("plain")
		assert.Same(t, plain, mapPostgresError(plain))
	})
}

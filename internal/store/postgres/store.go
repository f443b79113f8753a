// Package postgres persists profiles, households, applications and the lookup tables in
// PostgreSQL. Every store method maps sql.ErrNoRows to errors.ErrNotFound and a unique
// violation to errors.ErrConflict so callers can classify failures without a driver import.
package postgres

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"housing-workers/internal/common/errors"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// Store implements the lifecycle store interfaces over one *sql.DB.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, errors.ErrNotFound)
	}
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %s: %w", op, pqErr.Constraint, errors.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// mustAffect turns an update that matched no row into ErrNotFound.
func mustAffect(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, errors.ErrNotFound)
	}
	return nil
}

// nullIfEmpty stores "" as NULL.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func textArray(v []string) pq.StringArray {
	if v == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(v)
}

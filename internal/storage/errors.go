package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"backoffice/internal/core"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ConflictError is a uniqueness violation. Constraint names the violated
// constraint (Postgres) or the failing columns (SQLite).
type ConflictError struct {
	Constraint string
	Err        error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("unique constraint %s: %v", e.Constraint, e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

func (e *ConflictError) Is(target error) bool { return target == core.ErrConflict }

// mapError translates driver errors into domain error kinds.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return &ConflictError{Constraint: pgErr.ConstraintName, Err: err}
		case "23503":
			return fmt.Errorf("%w: referenced record does not exist", core.ErrNotFound)
		case "23514":
			return fmt.Errorf("%w: %s", core.ErrValidation, pgErr.ConstraintName)
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return &ConflictError{Constraint: liteErr.Error(), Err: err}
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: referenced record does not exist", core.ErrNotFound)
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return fmt.Errorf("%w: %s", core.ErrValidation, liteErr.Error())
		}
	}
	return err
}

// IsProjectIDConflict reports whether err is a duplicate project identifier,
// the expected outcome of two allocations racing for the same sequence.
func IsProjectIDConflict(err error) bool {
	var ce *ConflictError
	if !errors.As(err, &ce) {
		return false
	}
	return containsFold(ce.Constraint, "projects.project_id") ||
		containsFold(ce.Constraint, "projects_project_id_key")
}

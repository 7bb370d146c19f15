package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATEs postgres raises on constraint conflicts.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// DuplicateKeyError is returned when an insert or update hits a unique index.
// Constraint is the index name, e.g. idx_users_email.
type DuplicateKeyError struct {
	Constraint string
	Err        error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key violates %q", e.Constraint)
}

func (e *DuplicateKeyError) Unwrap() error { return e.Err }

// IsDuplicate reports whether err is a unique violation, optionally on one
// specific constraint.
func IsDuplicate(err error, constraint ...string) bool {
	var dup *DuplicateKeyError
	if !errors.As(err, &dup) {
		return false
	}
	if len(constraint) == 0 {
		return true
	}
	for _, c := range constraint {
		if dup.Constraint == c {
			return true
		}
	}
	return false
}

// MissingReferenceError is returned when a write points at a parent row that
// no longer exists.
type MissingReferenceError struct {
	Constraint string
	Err        error
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("missing referenced row for %q", e.Constraint)
}

func (e *MissingReferenceError) Unwrap() error { return e.Err }

// IsMissingReference reports whether err is a foreign key violation.
func IsMissingReference(err error) bool {
	var ref *MissingReferenceError
	return errors.As(err, &ref)
}

// translate converts driver level unique and foreign key violations into
// DuplicateKeyError and MissingReferenceError and passes every other error
// through untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &DuplicateKeyError{Constraint: pgErr.ConstraintName, Err: err}
		case pgForeignKeyViolation:
			return &MissingReferenceError{Constraint: pgErr.ConstraintName, Err: err}
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &DuplicateKeyError{Err: err}
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return &MissingReferenceError{Err: err}
	}
	return err
}

func offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

// Package apperrors holds the error kinds that services return and handlers turn
// into user-facing messages.
package apperrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// DuplicateValueError reports a uniqueness violation on Field.
type DuplicateValueError struct {
	Entity string
	Field  string
	Value  string
}

func (e *DuplicateValueError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
	}
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

// ConflictError reports an operation that clashes with current state,
// e.g. equipment that is already actively assigned.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

type AlreadyReturnedError struct {
	AssignmentID uint
}

func (e *AlreadyReturnedError) Error() string {
	return fmt.Sprintf("assignment %d was already returned", e.AssignmentID)
}

type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ValidationError reports malformed or missing input. Field may be empty.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Duplicate(entity, field, value string) error {
	return &DuplicateValueError{Entity: entity, Field: field, Value: value}
}

func Conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func NotFound(entity string, id uint) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// UniqueViolation reports whether err is a unique-key violation raised by the
// database. The returned key is the constraint name for postgres and
// "table.column" for sqlite.
func UniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	const marker = "UNIQUE constraint failed: "
	msg := err.Error()
	idx := strings.Index(msg, marker)
	if idx < 0 {
		return "", false
	}
	key := msg[idx+len(marker):]
	if end := strings.IndexAny(key, " ,()"); end >= 0 {
		key = key[:end]
	}
	return key, true
}

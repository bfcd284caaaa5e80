package domain

import (
	"github.com/pkg/errors"
)

// Error kinds. Callers match them with errors.Is.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrPersistence   = errors.New("persistence failure")
	ErrReorderFailed = errors.New("reorder failed")
)

// PersistenceError wraps a failed store call. It matches ErrPersistence and
// keeps the driver error reachable through Unwrap.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// NewPersistenceError returns nil when err is nil, so store code can wrap
// unconditionally. NotFound passes through untouched.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrPersistence) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// ReorderError reports a reorder batch in which at least one position write
// failed. The collection may be partially reordered; callers must re-fetch.
type ReorderError struct {
	LinkID   string // id of the first failing write
	Position int
	Failed   int // number of failed writes in the batch
	Err      error
}

func (e *ReorderError) Error() string {
	return errors.Wrapf(e.Err, "reorder failed at position %d (link %s, %d failed writes)",
		e.Position, e.LinkID, e.Failed).Error()
}

func (e *ReorderError) Unwrap() error { return e.Err }

func (e *ReorderError) Is(target error) bool { return target == ErrReorderFailed }

// InvalidInput builds a validation error carrying the field name.
func InvalidInput(field, format string, args ...any) error {
	return errors.Wrapf(ErrInvalidInput, field+": "+format, args...)
}

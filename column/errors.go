package column

import (
	"fmt"

	"github.com/hupe1980/attrstore/internal/errcat"
)

// DuplicateError is returned when a column id is already registered.
type DuplicateError struct {
	ID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("column %q already exists", e.ID)
}

func (e *DuplicateError) Unwrap() error { return errcat.Argument }

// InvalidSpecError is returned for a malformed column declaration.
type InvalidSpecError struct {
	ID     string
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid column %q: %s", e.ID, e.Reason)
}

func (e *InvalidSpecError) Unwrap() error { return errcat.Argument }

// ReservedError is returned when a reserved column is removed.
type ReservedError struct {
	ID string
}

func (e *ReservedError) Error() string {
	return fmt.Sprintf("column %q is reserved", e.ID)
}

func (e *ReservedError) Unwrap() error { return errcat.Argument }

// NotFoundError is returned when no column has the given id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("column %q not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return errcat.NotFound }

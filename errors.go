package attrstore

import (
	"fmt"

	"github.com/hupe1980/attrstore/internal/errcat"
)

// Error categories. Every error returned by the store and its packages
// matches exactly one of them with errors.Is.
var (
	// ErrArgument marks malformed input.
	ErrArgument = errcat.Argument
	// ErrTypeMismatch marks a value whose kind differs from the column type.
	ErrTypeMismatch = errcat.TypeMismatch
	// ErrNotFound marks a missing element, column or time entry.
	ErrNotFound = errcat.NotFound
	// ErrUnsupported marks an operation the target cannot perform.
	ErrUnsupported = errcat.Unsupported
	// ErrReadOnly marks a mutation of a read-only column.
	ErrReadOnly = errcat.ReadOnly
)

// ErrDuplicateElement indicates an element id already present in its table.
type ErrDuplicateElement struct {
	Table string
	ID    string
}

func (e *ErrDuplicateElement) Error() string {
	return fmt.Sprintf("%s: element %q already exists", e.Table, e.ID)
}

func (e *ErrDuplicateElement) Unwrap() error { return errcat.Argument }

// ErrElementNotFound indicates an unknown element id.
type ErrElementNotFound struct {
	Table string
	ID    string
}

func (e *ErrElementNotFound) Error() string {
	return fmt.Sprintf("%s: element %q not found", e.Table, e.ID)
}

func (e *ErrElementNotFound) Unwrap() error { return errcat.NotFound }

// ErrInvalidConfig indicates a configuration that cannot build a store.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidConfig struct {
	Field  string
	Reason string
	cause  error
}

func (e *ErrInvalidConfig) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid config %s: %s: %v", e.Field, e.Reason, e.cause)
	}
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

func (e *ErrInvalidConfig) Unwrap() []error {
	if e.cause != nil {
		return []error{errcat.Argument, e.cause}
	}
	return []error{errcat.Argument}
}

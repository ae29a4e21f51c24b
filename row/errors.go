package row

import (
	"errors"
	"fmt"

	"github.com/hupe1980/attrstore/internal/errcat"
	"github.com/hupe1980/attrstore/timeindex"
	"github.com/hupe1980/attrstore/value"
)

var (
	// ErrDetached is returned for mutations of a row whose element has
	// been removed from its store.
	ErrDetached = fmt.Errorf("%w: element is detached", errcat.Argument)

	// ErrNilColumn is returned when no column is given.
	ErrNilColumn = fmt.Errorf("%w: nil column", errcat.Argument)

	// ErrNullID is returned when a row is created without an identity.
	ErrNullID = fmt.Errorf("%w: element id is null", errcat.Argument)

	// ErrEntryCount is returned when time keys and values differ in length.
	ErrEntryCount = fmt.Errorf("%w: time keys and values differ in length", errcat.Argument)
)

// ForeignColumnError is returned when a column does not belong to the
// row's table.
type ForeignColumnError struct {
	Column string
}

func (e *ForeignColumnError) Error() string {
	return fmt.Sprintf("column %q does not belong to this table", e.Column)
}

func (e *ForeignColumnError) Unwrap() error { return errcat.Argument }

// ReadOnlyError is returned for writes to a read-only column.
type ReadOnlyError struct {
	Column string
}

func (e *ReadOnlyError) Error() string {
	return fmt.Sprintf("column %q is read-only", e.Column)
}

func (e *ReadOnlyError) Unwrap() error { return errcat.ReadOnly }

// TypeMismatchError is returned when an offered value does not match the
// declared type of a column.
type TypeMismatchError struct {
	Column   string
	Expected value.Kind
	Actual   value.Kind
	// Dynamic is set when a static write targets a dynamic column.
	Dynamic bool
}

func (e *TypeMismatchError) Error() string {
	expected := e.Expected.String()
	if e.Dynamic {
		expected = "dynamic " + expected
	}
	return fmt.Sprintf("column %q expects %s, got %s", e.Column, expected, e.Actual)
}

func (e *TypeMismatchError) Unwrap() error { return errcat.TypeMismatch }

// UnsupportedError is returned for operations the column or configuration
// does not allow.
type UnsupportedError struct {
	Column string
	Op     string
	Reason string
}

func (e *UnsupportedError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s on column %q: %s", e.Op, e.Column, e.Reason)
}

func (e *UnsupportedError) Unwrap() error { return errcat.Unsupported }

// NullValueError is returned when a write offers a null value.
type NullValueError struct {
	Column string
}

func (e *NullValueError) Error() string {
	return fmt.Sprintf("null value for column %q", e.Column)
}

func (e *NullValueError) Unwrap() error { return errcat.Argument }

// TimeNotFoundError is returned by GetTimeOrFail when no value exists at
// the key.
type TimeNotFoundError struct {
	Column string
	Key    timeindex.Interval
}

func (e *TimeNotFoundError) Error() string {
	return fmt.Sprintf("column %q has no value at %s", e.Column, e.Key)
}

func (e *TimeNotFoundError) Unwrap() error { return errcat.NotFound }

// collaboratorError wraps a failure reported by the time registry. It only
// happens when a registry is shared incorrectly between tables.
func collaboratorError(op string, err error) error {
	return errors.Join(fmt.Errorf("row: %s", op), err)
}

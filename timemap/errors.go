package timemap

import (
	"fmt"

	"github.com/hupe1980/attrstore/internal/errcat"
	"github.com/hupe1980/attrstore/value"
)

// ErrNotFound is the category of NotFoundError.
var ErrNotFound = errcat.NotFound

// NotFoundError is returned by GetOrFail when the time-index has no entry.
type NotFoundError struct {
	Index int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("time index %d not found", e.Index)
}

func (e *NotFoundError) Unwrap() error { return errcat.NotFound }

// UnsupportedEstimatorError indicates an estimator that is meaningless for
// the map's value kind.
type UnsupportedEstimatorError struct {
	Estimator Estimator
	Kind      value.Kind
}

func (e *UnsupportedEstimatorError) Error() string {
	return fmt.Sprintf("estimator %s is not supported for %s values", e.Estimator, e.Kind)
}

func (e *UnsupportedEstimatorError) Unwrap() error { return errcat.Unsupported }

// KindMismatchError indicates a Value whose kind differs from the map's.
type KindMismatchError struct {
	Expected value.Kind
	Actual   value.Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("value kind mismatch: expected %s, got %s", e.Expected, e.Actual)
}

func (e *KindMismatchError) Unwrap() error { return errcat.TypeMismatch }

// InvalidIndexError indicates a negative time-index.
type InvalidIndexError struct {
	Index int
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("invalid time index: %d", e.Index)
}

func (e *InvalidIndexError) Unwrap() error { return errcat.Argument }

package timeindex

import (
	"fmt"

	"github.com/hupe1980/attrstore/internal/errcat"
)

// InvalidIntervalError is returned for NaN, infinite or inverted intervals.
type InvalidIntervalError struct {
	Interval Interval
	Reason   string
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("invalid interval {%v, %v}: %s", e.Interval.Low, e.Interval.High, e.Reason)
}

func (e *InvalidIntervalError) Unwrap() error { return errcat.Argument }

// RepresentationError is returned when a proper interval is used with a
// store configured for timestamps.
type RepresentationError struct {
	Representation Representation
	Interval       Interval
}

func (e *RepresentationError) Error() string {
	return fmt.Sprintf("interval %s does not match time representation %s", e.Interval, e.Representation)
}

func (e *RepresentationError) Unwrap() error { return errcat.Argument }

// UnknownIndexError is returned when a time-index is not allocated.
type UnknownIndexError struct {
	Index int
}

func (e *UnknownIndexError) Error() string {
	return fmt.Sprintf("time-index %d is not allocated", e.Index)
}

func (e *UnknownIndexError) Unwrap() error { return errcat.NotFound }

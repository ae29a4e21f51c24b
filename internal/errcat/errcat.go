// Package errcat holds the error categories shared by every attrstore package.
//
// Concrete error types in the public packages unwrap to exactly one of these
// sentinels, so callers can classify any failure with errors.Is. The root
// attrstore package re-exports them.
package errcat

import "errors"

var (
	// Argument marks malformed input: missing required values, non-finite
	// time values, columns that do not belong to the table.
	Argument = errors.New("invalid argument")

	// TypeMismatch marks a value whose kind differs from the column's declared type.
	TypeMismatch = errors.New("type mismatch")

	// NotFound marks an exact lookup on a missing time-index.
	NotFound = errors.New("not found")

	// Unsupported marks an operation the target cannot perform.
	Unsupported = errors.New("unsupported operation")

	// ReadOnly marks a mutation of a read-only column.
	ReadOnly = errors.New("read-only column")
)

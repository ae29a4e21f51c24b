package timeindex

import (
	"fmt"
	"strings"
)

// Representation selects whether time keys are timestamps or intervals. It
// is fixed per store.
type Representation uint8

const (
	// RepresentationTimestamp accepts only degenerate intervals.
	RepresentationTimestamp Representation = iota
	// RepresentationInterval accepts any valid interval.
	RepresentationInterval
)

// String returns the config name of r.
func (r Representation) String() string {
	switch r {
	case RepresentationTimestamp:
		return "timestamp"
	case RepresentationInterval:
		return "interval"
	}
	return fmt.Sprintf("Representation(%d)", uint8(r))
}

// ParseRepresentation parses "timestamp" or "interval".
func ParseRepresentation(s string) (Representation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "timestamp", "":
		return RepresentationTimestamp, nil
	case "interval":
		return RepresentationInterval, nil
	}
	return 0, fmt.Errorf("unknown time representation %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Representation) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Representation) UnmarshalText(text []byte) error {
	parsed, err := ParseRepresentation(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Check validates iv and verifies it fits the representation.
func (r Representation) Check(iv Interval) error {
	if err := iv.Validate(); err != nil {
		return err
	}
	if r == RepresentationTimestamp && !iv.IsTimestamp() {
		return &RepresentationError{Representation: r, Interval: iv}
	}
	return nil
}

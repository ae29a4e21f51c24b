package timemap

import (
	"fmt"
	"strings"
)

// Estimator is a range-aggregation function applied to a time-ordered map.
type Estimator uint8

const (
	// EstimatorInvalid is the zero Estimator.
	EstimatorInvalid Estimator = iota
	// Min selects the smallest value in the range.
	Min
	// Max selects the largest value in the range.
	Max
	// First selects the chronologically first value in the range.
	First
	// Last selects the chronologically last value in the range.
	Last
	// Average is the arithmetic mean of the range, always a float64.
	Average
	// Sum adds every value in the range using a promoted result type.
	Sum
)

// Estimators lists every valid estimator.
var Estimators = []Estimator{Min, Max, First, Last, Average, Sum}

// String returns the string representation of the Estimator.
func (e Estimator) String() string {
	switch e {
	case Min:
		return "min"
	case Max:
		return "max"
	case First:
		return "first"
	case Last:
		return "last"
	case Average:
		return "average"
	case Sum:
		return "sum"
	default:
		return "invalid"
	}
}

// ParseEstimator parses the name produced by Estimator.String.
func ParseEstimator(s string) (Estimator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "min":
		return Min, nil
	case "max":
		return Max, nil
	case "first":
		return First, nil
	case "last":
		return Last, nil
	case "average", "avg":
		return Average, nil
	case "sum":
		return Sum, nil
	}
	return EstimatorInvalid, fmt.Errorf("unknown estimator %q", s)
}

// Valid reports whether e is one of the defined estimators.
func (e Estimator) Valid() bool {
	return e >= Min && e <= Sum
}

// MarshalText implements encoding.TextMarshaler.
func (e Estimator) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Estimator) UnmarshalText(text []byte) error {
	parsed, err := ParseEstimator(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

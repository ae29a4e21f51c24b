package timeindex

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Interval is a closed time interval [Low, High]. A timestamp is the
// degenerate interval with Low == High.
type Interval struct {
	Low  float64
	High float64
}

// Timestamp returns the degenerate interval {t, t}.
func Timestamp(t float64) Interval {
	return Interval{Low: t, High: t}
}

// Span returns the interval [low, high] without validating it.
func Span(low, high float64) Interval {
	return Interval{Low: low, High: high}
}

// Infinite is the interval covering every finite time.
var Infinite = Interval{Low: -math.MaxFloat64, High: math.MaxFloat64}

// IsTimestamp reports whether iv is degenerate.
func (iv Interval) IsTimestamp() bool {
	return iv.Low == iv.High
}

// Validate rejects non-finite bounds and inverted intervals.
func (iv Interval) Validate() error {
	switch {
	case math.IsNaN(iv.Low) || math.IsNaN(iv.High):
		return &InvalidIntervalError{Interval: iv, Reason: "bound is NaN"}
	case math.IsInf(iv.Low, 0) || math.IsInf(iv.High, 0):
		return &InvalidIntervalError{Interval: iv, Reason: "bound is infinite"}
	case iv.Low > iv.High:
		return &InvalidIntervalError{Interval: iv, Reason: "low is greater than high"}
	}
	return nil
}

// Overlaps reports whether iv and q share at least one point.
func (iv Interval) Overlaps(q Interval) bool {
	return iv.Low <= q.High && iv.High >= q.Low
}

// Less orders intervals by Low, then High.
func (iv Interval) Less(other Interval) bool {
	if iv.Low != other.Low {
		return iv.Low < other.Low
	}
	return iv.High < other.High
}

// Compare orders intervals like Less and returns -1, 0 or +1.
func Compare(a, b Interval) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}

// String renders a timestamp as its number and an interval as [low, high].
func (iv Interval) String() string {
	if iv.IsTimestamp() {
		return strconv.FormatFloat(iv.Low, 'g', -1, 64)
	}
	return fmt.Sprintf("[%s, %s]",
		strconv.FormatFloat(iv.Low, 'g', -1, 64),
		strconv.FormatFloat(iv.High, 'g', -1, 64))
}

// ParseInterval parses the forms produced by String: "t" or "[low, high]".
func ParseInterval(s string) (Interval, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		lowStr, highStr, ok := strings.Cut(s[1:len(s)-1], ",")
		if !ok {
			return Interval{}, fmt.Errorf("timeindex: malformed interval %q", s)
		}
		low, err := strconv.ParseFloat(strings.TrimSpace(lowStr), 64)
		if err != nil {
			return Interval{}, fmt.Errorf("timeindex: malformed interval %q: %w", s, err)
		}
		high, err := strconv.ParseFloat(strings.TrimSpace(highStr), 64)
		if err != nil {
			return Interval{}, fmt.Errorf("timeindex: malformed interval %q: %w", s, err)
		}
		iv := Span(low, high)
		return iv, iv.Validate()
	}

	t, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Interval{}, fmt.Errorf("timeindex: malformed timestamp %q: %w", s, err)
	}
	iv := Timestamp(t)
	return iv, iv.Validate()
}

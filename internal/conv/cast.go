package conv

import (
	"fmt"
	"math"

	"github.com/hupe1980/attrstore/internal/errcat"
)

// OverflowError reports an integer that does not fit the target type.
type OverflowError struct {
	Value  int
	Target string
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("integer overflow: %d cannot be converted to %s", e.Value, e.Target)
}

func (e *OverflowError) Unwrap() error { return errcat.Argument }

// IntToUint32 converts int to uint32 safely.
func IntToUint32(v int) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, &OverflowError{Value: v, Target: "uint32"}
	}
	return uint32(v), nil
}

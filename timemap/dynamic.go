package timemap

import (
	"fmt"

	"github.com/hupe1980/attrstore/internal/errcat"
	"github.com/hupe1980/attrstore/value"
)

// Dynamic is the kind-erased view of a Map used by attribute rows, where
// the value type is only known from column metadata at runtime.
type Dynamic interface {
	Kind() value.Kind
	Len() int
	IsEmpty() bool
	Contains(idx int) bool
	PutValue(idx int, v value.Value) (bool, error)
	GetValue(idx int) (value.Value, bool)
	Remove(idx int) bool
	Keys() []int
	Entries() ([]int, []value.Value)
	Supports(e Estimator) bool
	Aggregate(indices []int, e Estimator) (value.Value, error)
	AggregateRange(lo, hi int, e Estimator) (value.Value, error)
	Clear()
}

var (
	_ Dynamic = (*Map[bool])(nil)
	_ Dynamic = (*Map[int8])(nil)
	_ Dynamic = (*Map[int16])(nil)
	_ Dynamic = (*Map[int32])(nil)
	_ Dynamic = (*Map[int64])(nil)
	_ Dynamic = (*Map[float32])(nil)
	_ Dynamic = (*Map[float64])(nil)
	_ Dynamic = (*Map[value.Char])(nil)
	_ Dynamic = (*Map[string])(nil)
)

// New creates an empty map for values of kind k.
func New(k value.Kind, capacity int) (Dynamic, error) {
	switch k {
	case value.KindBool:
		return NewMap[bool](capacity), nil
	case value.KindInt8:
		return NewMap[int8](capacity), nil
	case value.KindInt16:
		return NewMap[int16](capacity), nil
	case value.KindInt32:
		return NewMap[int32](capacity), nil
	case value.KindInt64:
		return NewMap[int64](capacity), nil
	case value.KindFloat32:
		return NewMap[float32](capacity), nil
	case value.KindFloat64:
		return NewMap[float64](capacity), nil
	case value.KindChar:
		return NewMap[value.Char](capacity), nil
	case value.KindString:
		return NewMap[string](capacity), nil
	}
	return nil, fmt.Errorf("%w: no time map for kind %s", errcat.Argument, k)
}

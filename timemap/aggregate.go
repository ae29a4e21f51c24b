package timemap

import (
	"math"

	"github.com/hupe1980/attrstore/value"
	"github.com/shopspring/decimal"
)

// aggregate computes e over vals, which are already in the order FIRST and
// LAST refer to. Support has been checked by the caller.
func aggregate[V value.Scalar](vals []V, e Estimator) value.Value {
	if len(vals) == 0 {
		return value.Null()
	}

	switch e {
	case First:
		return value.Of(vals[0])
	case Last:
		return value.Of(vals[len(vals)-1])
	case Min, Max:
		best := value.Of(vals[0])
		for _, v := range vals[1:] {
			cur := value.Of(v)
			c := value.Compare(cur, best)
			if (e == Min && c < 0) || (e == Max && c > 0) {
				best = cur
			}
		}
		return best
	case Sum:
		return promoteSum(value.KindOf[V](), sum(vals))
	case Average:
		total := sum(vals)
		if total.float {
			return value.Float64(total.f / float64(len(vals)))
		}
		avg := total.d.Div(decimal.NewFromInt(int64(len(vals))))
		return value.Float64(avg.InexactFloat64())
	}
	return value.Null()
}

// accumulator is an exact decimal sum. Non-finite floats cannot be
// represented as decimals; once one is seen the sum continues in IEEE
// float64 so NaN and infinities propagate as usual.
type accumulator struct {
	d     decimal.Decimal
	f     float64
	float bool
}

func sum[V value.Scalar](vals []V) accumulator {
	var acc accumulator
	for _, v := range vals {
		switch x := any(v).(type) {
		case int8:
			acc.addInt(int64(x))
		case int16:
			acc.addInt(int64(x))
		case int32:
			acc.addInt(int64(x))
		case int64:
			acc.addInt(x)
		case float32:
			acc.addFloat(float64(x), true)
		case float64:
			acc.addFloat(x, false)
		}
	}
	return acc
}

func (a *accumulator) addInt(v int64) {
	if a.float {
		a.f += float64(v)
		return
	}
	a.d = a.d.Add(decimal.NewFromInt(v))
}

func (a *accumulator) addFloat(v float64, single bool) {
	if !a.float && (math.IsNaN(v) || math.IsInf(v, 0)) {
		a.float = true
		a.f = a.d.InexactFloat64()
	}
	if a.float {
		a.f += v
		return
	}
	if single {
		a.d = a.d.Add(decimal.NewFromFloat32(float32(v)))
		return
	}
	a.d = a.d.Add(decimal.NewFromFloat(v))
}

// promoteSum narrows an accumulated sum to the reporting type of kind k:
// int8 and int16 report int32, int32 and int64 report int64, floats report
// float64.
func promoteSum(k value.Kind, acc accumulator) value.Value {
	switch k {
	case value.KindInt8, value.KindInt16:
		return value.Int32(int32(acc.d.IntPart()))
	case value.KindInt32, value.KindInt64:
		return value.Int64(acc.d.IntPart())
	}
	if acc.float {
		return value.Float64(acc.f)
	}
	return value.Float64(acc.d.InexactFloat64())
}

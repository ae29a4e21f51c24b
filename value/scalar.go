package value

// Scalar is the set of native types a Value can carry.
type Scalar interface {
	bool | int8 | int16 | int32 | int64 | float32 | float64 | Char | string
}

// KindOf returns the Kind matching the type parameter.
func KindOf[V Scalar]() Kind {
	var zero V
	switch any(zero).(type) {
	case bool:
		return KindBool
	case int8:
		return KindInt8
	case int16:
		return KindInt16
	case int32:
		return KindInt32
	case int64:
		return KindInt64
	case float32:
		return KindFloat32
	case float64:
		return KindFloat64
	case Char:
		return KindChar
	case string:
		return KindString
	}
	return KindInvalid
}

// Of wraps a native scalar into a Value.
func Of[V Scalar](v V) Value {
	switch x := any(v).(type) {
	case bool:
		return Bool(x)
	case int8:
		return Int8(x)
	case int16:
		return Int16(x)
	case int32:
		return Int32(x)
	case int64:
		return Int64(x)
	case float32:
		return Float32(x)
	case float64:
		return Float64(x)
	case Char:
		return CharOf(x)
	case string:
		return String(x)
	}
	return Value{}
}

// As unwraps v into the native type V. It reports false when v's kind does
// not match V exactly.
func As[V Scalar](v Value) (V, bool) {
	var out V
	if v.Kind != KindOf[V]() {
		return out, false
	}
	switch p := any(&out).(type) {
	case *bool:
		*p = v.B
	case *int8:
		*p = int8(v.I64)
	case *int16:
		*p = int16(v.I64)
	case *int32:
		*p = int32(v.I64)
	case *int64:
		*p = v.I64
	case *float32:
		*p = float32(v.F64)
	case *float64:
		*p = v.F64
	case *Char:
		*p = Char(v.I64)
	case *string:
		*p = v.s.Value()
	}
	return out, true
}

// FromInterface converts a native Go value into a Value. Untyped ints are
// not accepted: callers must state the width they mean.
func FromInterface(x any) (Value, bool) {
	switch t := x.(type) {
	case nil:
		return Null(), true
	case Value:
		return t, true
	case bool:
		return Bool(t), true
	case int8:
		return Int8(t), true
	case int16:
		return Int16(t), true
	case int32:
		return Int32(t), true
	case int64:
		return Int64(t), true
	case float32:
		return Float32(t), true
	case float64:
		return Float64(t), true
	case Char:
		return CharOf(t), true
	case string:
		return String(t), true
	}
	return Value{}, false
}

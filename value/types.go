package value

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unique"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindNull represents the absence of a value.
	KindNull
	// KindBool represents a boolean value.
	KindBool
	// KindInt8 represents an 8-bit integer value.
	KindInt8
	// KindInt16 represents a 16-bit integer value.
	KindInt16
	// KindInt32 represents a 32-bit integer value.
	KindInt32
	// KindInt64 represents a 64-bit integer value.
	KindInt64
	// KindFloat32 represents a 32-bit float value.
	KindFloat32
	// KindFloat64 represents a 64-bit float value.
	KindFloat64
	// KindChar represents a single character.
	KindChar
	// KindString represents a string value.
	KindString
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// ParseKind parses the name produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bool", "boolean":
		return KindBool, nil
	case "int8", "byte":
		return KindInt8, nil
	case "int16", "short":
		return KindInt16, nil
	case "int32", "int", "integer":
		return KindInt32, nil
	case "int64", "long":
		return KindInt64, nil
	case "float32", "float":
		return KindFloat32, nil
	case "float64", "double":
		return KindFloat64, nil
	case "char":
		return KindChar, nil
	case "string":
		return KindString, nil
	}
	return KindInvalid, fmt.Errorf("unknown value kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Valid reports whether k is a storable kind (not invalid, not null).
func (k Kind) Valid() bool {
	return k >= KindBool && k <= KindString
}

// Integer reports whether k is one of the integer kinds.
func (k Kind) Integer() bool {
	return k >= KindInt8 && k <= KindInt64
}

// Float reports whether k is one of the floating point kinds.
func (k Kind) Float() bool {
	return k == KindFloat32 || k == KindFloat64
}

// Numeric reports whether values of k can be summed and averaged.
func (k Kind) Numeric() bool {
	return k.Integer() || k.Float()
}

// Orderable reports whether values of k have a natural order usable by MIN/MAX.
//
// Booleans and strings are deliberately excluded.
func (k Kind) Orderable() bool {
	return k.Numeric() || k == KindChar
}

// Char is a single character. It is a distinct type so that generic
// containers over Char and int32 stay distinguishable.
type Char rune

// Value is a small typed value stored in attribute rows.
//
// The representation avoids reflection: the Kind selects which payload
// field is meaningful.
type Value struct {
	Kind Kind
	I64  int64
	F64  float64
	s    unique.Handle[string]
	B    bool
}

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Int8 returns an 8-bit integer Value.
func Int8(v int8) Value { return Value{Kind: KindInt8, I64: int64(v)} }

// Int16 returns a 16-bit integer Value.
func Int16(v int16) Value { return Value{Kind: KindInt16, I64: int64(v)} }

// Int32 returns a 32-bit integer Value.
func Int32(v int32) Value { return Value{Kind: KindInt32, I64: int64(v)} }

// Int64 returns a 64-bit integer Value.
func Int64(v int64) Value { return Value{Kind: KindInt64, I64: v} }

// Float32 returns a 32-bit float Value.
func Float32(v float32) Value { return Value{Kind: KindFloat32, F64: float64(v)} }

// Float64 returns a 64-bit float Value.
func Float64(v float64) Value { return Value{Kind: KindFloat64, F64: v} }

// CharOf returns a character Value.
func CharOf(v Char) Value { return Value{Kind: KindChar, I64: int64(v)} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, s: unique.Make(v)} }

// IsNull reports whether v carries no value.
func (v Value) IsNull() bool {
	return v.Kind == KindNull || v.Kind == KindInvalid
}

// StringValue returns the string value if Kind is KindString, otherwise empty string.
func (v Value) StringValue() string {
	if v.Kind == KindString {
		return v.s.Value()
	}
	return ""
}

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsInt64 returns the integer payload widened to int64 for any integer kind.
func (v Value) AsInt64() (int64, bool) {
	if !v.Kind.Integer() {
		return 0, false
	}
	return v.I64, true
}

// AsFloat64 returns the float payload for any floating point kind.
func (v Value) AsFloat64() (float64, bool) {
	if !v.Kind.Float() {
		return 0, false
	}
	return v.F64, true
}

// AsChar returns the character if Kind is KindChar.
func (v Value) AsChar() (Char, bool) {
	if v.Kind != KindChar {
		return 0, false
	}
	return Char(v.I64), true
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.s.Value(), true
}

// Interface returns the native Go value, or nil for null.
func (v Value) Interface() any {
	switch v.Kind {
	case KindBool:
		return v.B
	case KindInt8:
		return int8(v.I64)
	case KindInt16:
		return int16(v.I64)
	case KindInt32:
		return int32(v.I64)
	case KindInt64:
		return v.I64
	case KindFloat32:
		return float32(v.F64)
	case KindFloat64:
		return v.F64
	case KindChar:
		return Char(v.I64)
	case KindString:
		return v.s.Value()
	default:
		return nil
	}
}

// Key returns a stable string representation for use in maps.
//
// It is used by the reverse value index; two values with equal keys are
// the same value of the same kind family.
func (v Value) Key() string {
	switch v.Kind {
	case KindBool:
		if v.B {
			return "b:1"
		}
		return "b:0"
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return "i:" + strconv.FormatInt(v.I64, 10)
	case KindFloat32, KindFloat64:
		return "f:" + strconv.FormatUint(math.Float64bits(v.F64), 16)
	case KindChar:
		return "c:" + strconv.FormatInt(v.I64, 10)
	case KindString:
		return "s:" + v.s.Value()
	default:
		return "null"
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return strconv.FormatInt(v.I64, 10)
	case KindFloat32:
		return strconv.FormatFloat(v.F64, 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case KindChar:
		return string(rune(v.I64))
	case KindString:
		return v.s.Value()
	default:
		return "<null>"
	}
}

// Equal reports whether a and b hold the same kind and payload. Floats
// are compared by their bits.
func Equal(a, b Value) bool {
	if a.IsNull() || b.IsNull() {
		return a.IsNull() && b.IsNull()
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind.Float() {
		// Bitwise, like Key: -0 and +0 are distinct values.
		return math.Float64bits(a.F64) == math.Float64bits(b.F64)
	}
	return Compare(a, b) == 0
}

// Compare orders two values of the same kind. Nulls sort first; values of
// different kinds are ordered by kind.
func Compare(a, b Value) int {
	if a.IsNull() || b.IsNull() {
		return cmp.Compare(boolRank(!a.IsNull()), boolRank(!b.IsNull()))
	}
	if a.Kind != b.Kind {
		return cmp.Compare(a.Kind, b.Kind)
	}
	switch a.Kind {
	case KindBool:
		return cmp.Compare(boolRank(a.B), boolRank(b.B))
	case KindFloat32, KindFloat64:
		return cmp.Compare(a.F64, b.F64)
	case KindString:
		return strings.Compare(a.s.Value(), b.s.Value())
	default:
		return cmp.Compare(a.I64, b.I64)
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Parse converts the textual form s into a Value of kind k.
func Parse(k Kind, s string) (Value, error) {
	switch k {
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case KindInt8, KindInt16, KindInt32, KindInt64:
		i, err := strconv.ParseInt(s, 10, bitSize(k))
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: k, I64: i}, nil
	case KindFloat32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return Value{}, err
		}
		return Float32(float32(f)), nil
	case KindFloat64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, err
		}
		return Float64(f), nil
	case KindChar:
		r := []rune(s)
		if len(r) != 1 {
			return Value{}, fmt.Errorf("char value must be a single character, got %q", s)
		}
		return CharOf(Char(r[0])), nil
	case KindString:
		return String(s), nil
	}
	return Value{}, fmt.Errorf("cannot parse value of kind %s", k)
}

func bitSize(k Kind) int {
	switch k {
	case KindInt8:
		return 8
	case KindInt16:
		return 16
	case KindInt32:
		return 32
	default:
		return 64
	}
}

// Package value defines the typed scalar values stored in attribute rows.
//
// A Value is a Kind-tagged struct instead of an interface{} so that type
// checks against column declarations are a single comparison and no
// reflection is involved on the write path.
//
// # Kinds
//
//	Bool, Int8, Int16, Int32, Int64, Float32, Float64, Char, String
//
// Null is used both as "no value" in aggregation results and as the
// absence marker of unset columns.
//
// # Generic helpers
//
// Of and As convert between Value and the native types listed by the
// Scalar constraint:
//
//	v := value.Of[int16](42)
//	n, ok := value.As[int16](v)
package value

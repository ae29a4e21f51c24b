// Package timemap implements the time-indexed value containers.
//
// A time-index is a small non-negative integer standing for one distinct
// timestamp or interval; allocation is owned by package timeindex. This
// package only sees the integers.
//
// # Containers
//
//	Map[V]  sorted time-index -> V, one generic type for every value kind
//	Set     sorted set of time-indices (time membership, no value)
//
// Both keep parallel arrays sorted by binary search and grow by exactly one
// slot when full.
//
// # Estimators
//
// Range queries reduce the matched entries with one of six estimators:
//
//	MIN, MAX      natural order, native type
//	FIRST, LAST   chronological ends, native type
//	SUM           exact decimal accumulation, promoted type
//	AVERAGE       exact decimal accumulation, float64
//
// Which estimators a Map accepts depends on its kind (see Supports). An
// empty match is reported as value.Null(), never as a zero value.
package timemap

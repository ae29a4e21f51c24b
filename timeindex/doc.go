// Package timeindex converts time keys to the small integers used by the
// timemap containers and back.
//
// A key is an Interval. In timestamp mode only degenerate intervals
// {t, t} are accepted; in interval mode any finite Low <= High is.
//
// Each table owns one Registry. Integers are dense, allocated on first
// use, reference counted by the containers that hold them, and recycled
// once unreferenced. The registry keeps keys ordered by (Low, High), which
// is the chronological order FIRST and LAST refer to, and resolves range
// queries to the overlapping integers.
package timeindex

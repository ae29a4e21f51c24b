// Package column holds the column metadata of an element table: declared
// type, dynamic flag, default, read-only flag, reverse-index flag and a
// version counter.
//
// Every table reserves three columns at fixed indices:
//
//	0  id       element identity, read-only
//	1  label    element label (string)
//	2  timeset  time membership of the element
package column

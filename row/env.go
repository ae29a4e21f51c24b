package row

import (
	"github.com/hupe1980/attrstore/column"
	"github.com/hupe1980/attrstore/internal/lockorder"
	"github.com/hupe1980/attrstore/timeindex"
	"github.com/hupe1980/attrstore/value"
)

// ColumnSource is the column metadata of the table a row belongs to.
type ColumnSource interface {
	Owns(c *column.Column) bool
	ByIndex(i int) (*column.Column, bool)
}

// TimeRegistry allocates and reference counts time-indices.
type TimeRegistry interface {
	Representation() timeindex.Representation
	Acquire(key timeindex.Interval) (int, error)
	AcquireElement(key timeindex.Interval, elem uint32) (int, bool, error)
	Release(idx int) error
	ReleaseElement(idx int, elem uint32) error
	Lookup(key timeindex.Interval) (int, bool)
	Keys(indices []int) []timeindex.Interval
	Overlapping(q timeindex.Interval) []int
}

// ValueIndex receives the value transitions of indexed static columns.
type ValueIndex interface {
	Set(col int, prev, next value.Value, elem uint32)
}

// LockObserver is told about every row lock acquisition and release.
type LockObserver interface {
	Acquire(l lockorder.Level)
	Release(l lockorder.Level)
}

// Env bundles the collaborators shared by every row of one table.
type Env struct {
	Columns ColumnSource
	Times   TimeRegistry
	// Values may be nil when no column is indexed.
	Values ValueIndex
	// Locks may be nil.
	Locks LockObserver

	LabelEnabled   bool
	TimeSetEnabled bool
}

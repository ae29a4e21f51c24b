package column

import (
	"sync/atomic"

	"github.com/hupe1980/attrstore/timemap"
	"github.com/hupe1980/attrstore/value"
)

// Spec declares a column.
type Spec struct {
	// ID is the case-insensitive lookup key.
	ID string
	// Title is the display name. Defaults to ID.
	Title string
	// Type is the value kind stored in the column.
	Type value.Kind
	// Dynamic columns hold timestamped values.
	Dynamic bool
	// TimeSet marks the reserved time-membership column.
	TimeSet bool
	// Default is returned for elements that hold no value. Null or of kind Type.
	Default value.Value
	// Indexed columns maintain a reverse value index.
	Indexed bool
	// ReadOnly columns reject writes and removals.
	ReadOnly bool
	// Estimator is the default reduction for range reads on dynamic columns.
	// EstimatorInvalid defers to the store default.
	Estimator timemap.Estimator
}

// Column is one registered column of a Table.
type Column struct {
	spec    Spec
	index   int
	table   *Table
	version atomic.Uint64
}

// ID returns the column id as declared.
func (c *Column) ID() string { return c.spec.ID }

// Title returns the display name.
func (c *Column) Title() string { return c.spec.Title }

// Index returns the slot position of the column in every row of its table.
func (c *Column) Index() int { return c.index }

// Type returns the value kind.
func (c *Column) Type() value.Kind { return c.spec.Type }

// IsDynamic reports whether the column holds timestamped values.
func (c *Column) IsDynamic() bool { return c.spec.Dynamic }

// IsTimeSet reports whether the column is the reserved time-membership column.
func (c *Column) IsTimeSet() bool { return c.spec.TimeSet }

// Default returns the value reported for elements without one.
func (c *Column) Default() value.Value { return c.spec.Default }

// IsIndexed reports whether the column keeps a reverse value index.
func (c *Column) IsIndexed() bool { return c.spec.Indexed }

// IsReadOnly reports whether writes are rejected.
func (c *Column) IsReadOnly() bool { return c.spec.ReadOnly }

// Estimator returns the declared default estimator, possibly EstimatorInvalid.
func (c *Column) Estimator() timemap.Estimator { return c.spec.Estimator }

// Spec returns a copy of the declaration.
func (c *Column) Spec() Spec { return c.spec }

// Version returns the mutation counter.
func (c *Column) Version() uint64 { return c.version.Load() }

// IncrementVersion records one mutation of the column's data and returns
// the new version. Rows call it at most once per successful operation.
func (c *Column) IncrementVersion() uint64 { return c.version.Add(1) }

// Table returns the owning table.
func (c *Column) Table() *Table { return c.table }

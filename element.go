package attrstore

import (
	"context"
	"time"

	"github.com/hupe1980/attrstore/column"
	"github.com/hupe1980/attrstore/row"
	"github.com/hupe1980/attrstore/timeindex"
	"github.com/hupe1980/attrstore/timemap"
	"github.com/hupe1980/attrstore/value"
)

// Element is a node or edge. Attributes are addressed by column id.
type Element struct {
	table  *Table
	row    *row.Row
	id     string
	logger *Logger
}

// ID returns the element id.
func (e *Element) ID() string { return e.id }

// StoreID returns the dense id the table assigned to the element.
func (e *Element) StoreID() uint32 { return e.row.StoreID() }

// Table returns the table the element was created in.
func (e *Element) Table() *Table { return e.table }

// Detached reports whether the element has been removed from its table.
func (e *Element) Detached() bool { return e.row.Detached() }

func (e *Element) column(key string) (*column.Column, error) {
	return e.table.mustColumn(key)
}

func (e *Element) observeRead(op string, start time.Time, err error) {
	e.table.store.metrics.RecordRead(op, time.Since(start), err)
}

func (e *Element) observeWrite(op, key string, start time.Time, err error) {
	e.table.store.metrics.RecordWrite(op, time.Since(start), err)
	e.logger.LogWrite(context.Background(), op, key, err)
}

// Attribute returns the static value of column key, or its default.
func (e *Element) Attribute(key string) (v value.Value, err error) {
	defer func(start time.Time) { e.observeRead(OpGet, start, err) }(time.Now())

	c, err := e.column(key)
	if err != nil {
		return value.Value{}, err
	}
	return e.row.Get(c)
}

// SetAttribute writes the static value of column key.
func (e *Element) SetAttribute(key string, v value.Value) (err error) {
	defer func(start time.Time) { e.observeWrite(OpSet, key, start, err) }(time.Now())

	c, err := e.column(key)
	if err != nil {
		return err
	}
	return e.row.Set(c, v)
}

// RemoveAttribute clears column key and returns the static value it held.
// Dynamic columns lose every timestamped value and Null is returned.
func (e *Element) RemoveAttribute(key string) (old value.Value, err error) {
	defer func(start time.Time) { e.observeWrite(OpRemove, key, start, err) }(time.Now())

	c, err := e.column(key)
	if err != nil {
		return value.Value{}, err
	}
	return e.row.Remove(c)
}

// TimeAttribute returns the value of dynamic column key at at, or the
// column default when none is stored.
func (e *Element) TimeAttribute(key string, at timeindex.Interval) (v value.Value, err error) {
	defer func(start time.Time) { e.observeRead(OpGetTime, start, err) }(time.Now())

	c, err := e.column(key)
	if err != nil {
		return value.Value{}, err
	}
	return e.row.GetTime(c, at)
}

// TimeAttributeOrFail is TimeAttribute but fails with ErrNotFound when no
// value is stored at at.
func (e *Element) TimeAttributeOrFail(key string, at timeindex.Interval) (v value.Value, err error) {
	defer func(start time.Time) { e.observeRead(OpGetTime, start, err) }(time.Now())

	c, err := e.column(key)
	if err != nil {
		return value.Value{}, err
	}
	return e.row.GetTimeOrFail(c, at)
}

// SetTimeAttribute writes v to dynamic column key at at. It reports
// whether at was new for this element.
func (e *Element) SetTimeAttribute(key string, at timeindex.Interval, v value.Value) (inserted bool, err error) {
	defer func(start time.Time) { e.observeWrite(OpSetTime, key, start, err) }(time.Now())

	c, err := e.column(key)
	if err != nil {
		return false, err
	}
	return e.row.SetTime(c, at, v)
}

// SetTimeAttributes replaces every value of dynamic column key with the
// given entries, the inverse of TimeEntries.
func (e *Element) SetTimeAttributes(key string, at []timeindex.Interval, vals []value.Value) (err error) {
	defer func(start time.Time) { e.observeWrite(OpSetTimeEntries, key, start, err) }(time.Now())

	c, err := e.column(key)
	if err != nil {
		return err
	}
	return e.row.SetTimeEntries(c, at, vals)
}

// RemoveTimeAttribute deletes the value of dynamic column key at at and
// returns it, or Null when there was none.
func (e *Element) RemoveTimeAttribute(key string, at timeindex.Interval) (old value.Value, err error) {
	defer func(start time.Time) { e.observeWrite(OpRemoveTime, key, start, err) }(time.Now())

	c, err := e.column(key)
	if err != nil {
		return value.Value{}, err
	}
	return e.row.RemoveTime(c, at)
}

// AggregateAttribute reduces the values of dynamic column key that overlap
// q with the column's estimator, or the store default when the column
// declares none.
func (e *Element) AggregateAttribute(key string, q timeindex.Interval) (value.Value, error) {
	c, err := e.column(key)
	if err != nil {
		return value.Value{}, err
	}
	est := c.Estimator()
	if est == timemap.EstimatorInvalid {
		est = e.table.store.cfg.DefaultEstimator
	}
	return e.AggregateAttributeWith(key, q, est)
}

// AggregateAttributeWith reduces the values of dynamic column key that
// overlap q with est. Null is returned when nothing overlaps.
func (e *Element) AggregateAttributeWith(key string, q timeindex.Interval, est timemap.Estimator) (v value.Value, err error) {
	defer func(start time.Time) { e.observeRead(OpAggregate, start, err) }(time.Now())

	c, err := e.column(key)
	if err != nil {
		return value.Value{}, err
	}
	return e.row.Aggregate(c, q, est)
}

// TimeEntries returns the keys and values of dynamic column key in
// chronological order.
func (e *Element) TimeEntries(key string) ([]timeindex.Interval, []value.Value, error) {
	c, err := e.column(key)
	if err != nil {
		return nil, nil, err
	}
	return e.row.TimeEntries(c)
}

// AddTime records that the element exists at at.
func (e *Element) AddTime(at timeindex.Interval) (added bool, err error) {
	defer func(start time.Time) { e.observeWrite(OpMarkTime, column.TimeSetColumn, start, err) }(time.Now())

	return e.row.MarkTime(at)
}

// RemoveTime removes at from the element's time set.
func (e *Element) RemoveTime(at timeindex.Interval) (removed bool, err error) {
	defer func(start time.Time) { e.observeWrite(OpUnmarkTime, column.TimeSetColumn, start, err) }(time.Now())

	return e.row.UnmarkTime(at)
}

// HasTime reports whether at is in the element's time set.
func (e *Element) HasTime(at timeindex.Interval) (bool, error) {
	return e.row.HasTime(at)
}

// Times returns the element's time set in chronological order.
func (e *Element) Times() ([]timeindex.Interval, error) {
	return e.row.Times()
}

// Label returns the element label, or "" when unset.
func (e *Element) Label() string { return e.row.Label() }

// SetLabel writes the element label.
func (e *Element) SetLabel(label string) (err error) {
	defer func(start time.Time) { e.observeWrite(OpSet, column.LabelColumn, start, err) }(time.Now())

	return e.row.SetLabel(label)
}

// ClearAttributes removes every attribute value but keeps the element.
func (e *Element) ClearAttributes() (err error) {
	defer func(start time.Time) { e.observeWrite(OpClear, "", start, err) }(time.Now())

	return e.row.Clear()
}

package row

import (
	"slices"

	"github.com/hupe1980/attrstore/column"
	"github.com/hupe1980/attrstore/timeindex"
	"github.com/hupe1980/attrstore/timemap"
	"github.com/hupe1980/attrstore/value"
)

func (r *Row) checkDynamic(c *column.Column, op string) error {
	if c.IsTimeSet() {
		return &UnsupportedError{Column: c.ID(), Op: op, Reason: "time membership is accessed with the time set operations"}
	}
	if !c.IsDynamic() {
		return &UnsupportedError{Column: c.ID(), Op: op, Reason: "column is not dynamic"}
	}
	return nil
}

func (r *Row) checkKey(key timeindex.Interval) error {
	return r.env.Times.Representation().Check(key)
}

// GetTime returns the value of dynamic column c at key, or the column
// default when there is none.
func (r *Row) GetTime(c *column.Column, key timeindex.Interval) (value.Value, error) {
	v, ok, err := r.getTime(c, key)
	if err != nil {
		return value.Value{}, err
	}
	if !ok {
		return c.Default(), nil
	}
	return v, nil
}

// GetTimeOrFail is GetTime for callers that treat absence as an error.
func (r *Row) GetTimeOrFail(c *column.Column, key timeindex.Interval) (value.Value, error) {
	v, ok, err := r.getTime(c, key)
	if err != nil {
		return value.Value{}, err
	}
	if !ok {
		return value.Value{}, &TimeNotFoundError{Column: c.ID(), Key: key}
	}
	return v, nil
}

func (r *Row) getTime(c *column.Column, key timeindex.Interval) (value.Value, bool, error) {
	if err := r.checkColumn(c); err != nil {
		return value.Value{}, false, err
	}
	if err := r.checkDynamic(c, "get"); err != nil {
		return value.Value{}, false, err
	}
	if err := r.checkKey(key); err != nil {
		return value.Value{}, false, err
	}

	r.lock()
	defer r.unlock()

	s := r.slotLocked(c.Index())
	if s.kind != SlotTimeMap {
		return value.Value{}, false, nil
	}
	idx, ok := r.env.Times.Lookup(key)
	if !ok {
		return value.Value{}, false, nil
	}
	v, ok := s.times.GetValue(idx)
	return v, ok, nil
}

// Aggregate reduces the values of dynamic column c whose key overlaps q
// with estimator e. FIRST and LAST follow the chronological order of the
// keys. A column never written, or with no overlapping key, yields Null.
func (r *Row) Aggregate(c *column.Column, q timeindex.Interval, e timemap.Estimator) (value.Value, error) {
	if err := r.checkColumn(c); err != nil {
		return value.Value{}, err
	}
	if err := r.checkDynamic(c, "aggregate"); err != nil {
		return value.Value{}, err
	}
	if err := q.Validate(); err != nil {
		return value.Value{}, err
	}
	if !timemap.Supports(c.Type(), e) {
		return value.Value{}, &timemap.UnsupportedEstimatorError{Estimator: e, Kind: c.Type()}
	}

	r.lock()
	defer r.unlock()

	s := r.slotLocked(c.Index())
	if s.kind != SlotTimeMap {
		return value.Null(), nil
	}
	return s.times.Aggregate(r.env.Times.Overlapping(q), e)
}

// SetTime writes v to dynamic column c at key. It reports whether key was
// new for this element; only then is the column version bumped.
func (r *Row) SetTime(c *column.Column, key timeindex.Interval, v value.Value) (bool, error) {
	if err := r.checkWritable(c); err != nil {
		return false, err
	}
	if err := r.checkDynamic(c, "set"); err != nil {
		return false, err
	}
	if v.IsNull() {
		return false, &NullValueError{Column: c.ID()}
	}
	if v.Kind != c.Type() {
		return false, &TypeMismatchError{Column: c.ID(), Expected: c.Type(), Actual: v.Kind}
	}
	if err := r.checkKey(key); err != nil {
		return false, err
	}

	r.lock()
	defer r.unlock()

	if err := r.mutableLocked(c); err != nil {
		return false, err
	}

	i := c.Index()
	var m timemap.Dynamic
	if s := r.slotLocked(i); s.kind == SlotTimeMap {
		m = s.times
	} else {
		created, err := timemap.New(c.Type(), 0)
		if err != nil {
			return false, err
		}
		m = created
	}

	idx, err := r.env.Times.Acquire(key)
	if err != nil {
		return false, err
	}
	inserted, err := m.PutValue(idx, v)
	if err != nil {
		_ = r.env.Times.Release(idx)
		return false, err
	}

	r.growLocked(i + 1)
	r.slots[i] = timeMapSlot(m)

	if !inserted {
		// The element already held a reference to idx.
		if err := r.env.Times.Release(idx); err != nil {
			return false, collaboratorError("release time-index", err)
		}
		return false, nil
	}
	c.IncrementVersion()
	return true, nil
}

// SetTimeEntries replaces every value of dynamic column c with the given
// entries. It is the inverse of TimeEntries: keys[i] maps to vals[i], and a
// repeated key keeps its last value. Empty entries clear the column. Every
// entry is checked before the row changes, and the version is bumped once.
func (r *Row) SetTimeEntries(c *column.Column, keys []timeindex.Interval, vals []value.Value) error {
	if err := r.checkWritable(c); err != nil {
		return err
	}
	if err := r.checkDynamic(c, "set entries"); err != nil {
		return err
	}
	if len(keys) != len(vals) {
		return ErrEntryCount
	}
	for i, v := range vals {
		if v.IsNull() {
			return &NullValueError{Column: c.ID()}
		}
		if v.Kind != c.Type() {
			return &TypeMismatchError{Column: c.ID(), Expected: c.Type(), Actual: v.Kind}
		}
		if err := r.checkKey(keys[i]); err != nil {
			return err
		}
	}

	r.lock()
	defer r.unlock()

	if err := r.mutableLocked(c); err != nil {
		return err
	}

	// The new keys are acquired before the old ones are released, so a
	// key held by both keeps its time-index.
	var next timemap.Dynamic
	if len(keys) > 0 {
		m, err := timemap.New(c.Type(), len(keys))
		if err != nil {
			return err
		}
		for i, key := range keys {
			idx, err := r.env.Times.Acquire(key)
			if err != nil {
				_ = r.releaseTimesLocked(m)
				return err
			}
			inserted, err := m.PutValue(idx, vals[i])
			if err != nil || !inserted {
				_ = r.env.Times.Release(idx)
			}
			if err != nil {
				_ = r.releaseTimesLocked(m)
				return err
			}
		}
		next = m
	}

	_, removed, err := r.releaseSlotLocked(c)
	if next != nil {
		i := c.Index()
		r.growLocked(i + 1)
		r.slots[i] = timeMapSlot(next)
	}
	if removed || next != nil {
		c.IncrementVersion()
	}
	return err
}

// RemoveTime removes the value of dynamic column c at key and returns it,
// or Null when there was none.
func (r *Row) RemoveTime(c *column.Column, key timeindex.Interval) (value.Value, error) {
	if err := r.checkWritable(c); err != nil {
		return value.Value{}, err
	}
	if err := r.checkDynamic(c, "remove"); err != nil {
		return value.Value{}, err
	}
	if err := r.checkKey(key); err != nil {
		return value.Value{}, err
	}

	r.lock()
	defer r.unlock()

	if err := r.mutableLocked(c); err != nil {
		return value.Value{}, err
	}

	s := r.slotLocked(c.Index())
	if s.kind != SlotTimeMap {
		return value.Null(), nil
	}
	idx, ok := r.env.Times.Lookup(key)
	if !ok {
		return value.Null(), nil
	}
	old, ok := s.times.GetValue(idx)
	if !ok {
		return value.Null(), nil
	}

	s.times.Remove(idx)
	if err := r.env.Times.Release(idx); err != nil {
		return old, collaboratorError("release time-index", err)
	}
	c.IncrementVersion()
	return old, nil
}

// TimeEntries returns the keys and values of dynamic column c in
// chronological order.
func (r *Row) TimeEntries(c *column.Column) ([]timeindex.Interval, []value.Value, error) {
	if err := r.checkColumn(c); err != nil {
		return nil, nil, err
	}
	if err := r.checkDynamic(c, "entries"); err != nil {
		return nil, nil, err
	}

	r.lock()
	defer r.unlock()

	s := r.slotLocked(c.Index())
	if s.kind != SlotTimeMap {
		return nil, nil, nil
	}

	indices, vals := s.times.Entries()
	keys := r.env.Times.Keys(indices)

	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		return timeindex.Compare(keys[a], keys[b])
	})

	outKeys := make([]timeindex.Interval, len(order))
	outVals := make([]value.Value, len(order))
	for i, j := range order {
		outKeys[i] = keys[j]
		outVals[i] = vals[j]
	}
	return outKeys, outVals, nil
}

func (r *Row) timeSetColumn(op string) (*column.Column, error) {
	if !r.env.TimeSetEnabled {
		return nil, &UnsupportedError{Op: op, Reason: "element time sets are disabled"}
	}
	c, ok := r.env.Columns.ByIndex(column.TimeSetIndex)
	if !ok {
		return nil, &UnsupportedError{Op: op, Reason: "table has no time set column"}
	}
	return c, nil
}

// MarkTime adds key to the element's time membership. It reports whether
// key was new.
func (r *Row) MarkTime(key timeindex.Interval) (bool, error) {
	c, err := r.timeSetColumn("mark time")
	if err != nil {
		return false, err
	}
	if err := r.checkKey(key); err != nil {
		return false, err
	}

	r.lock()
	defer r.unlock()

	if r.detached {
		return false, ErrDetached
	}

	i := c.Index()
	set := r.slotLocked(i).set
	if set == nil {
		set = timemap.NewSet(0)
	}

	idx, added, err := r.env.Times.AcquireElement(key, r.storeID)
	if err != nil {
		return false, err
	}
	if !added {
		return false, nil
	}
	set.Add(idx)

	r.growLocked(i + 1)
	r.slots[i] = timeSetSlot(set)
	c.IncrementVersion()
	return true, nil
}

// UnmarkTime removes key from the element's time membership. It reports
// whether key was present.
func (r *Row) UnmarkTime(key timeindex.Interval) (bool, error) {
	c, err := r.timeSetColumn("unmark time")
	if err != nil {
		return false, err
	}
	if err := r.checkKey(key); err != nil {
		return false, err
	}

	r.lock()
	defer r.unlock()

	if r.detached {
		return false, ErrDetached
	}

	set := r.slotLocked(c.Index()).set
	if set == nil {
		return false, nil
	}
	idx, ok := r.env.Times.Lookup(key)
	if !ok || !set.Remove(idx) {
		return false, nil
	}
	if err := r.env.Times.ReleaseElement(idx, r.storeID); err != nil {
		return true, collaboratorError("release time-index", err)
	}
	c.IncrementVersion()
	return true, nil
}

// HasTime reports whether key is in the element's time membership.
func (r *Row) HasTime(key timeindex.Interval) (bool, error) {
	c, err := r.timeSetColumn("has time")
	if err != nil {
		return false, err
	}

	r.lock()
	defer r.unlock()

	set := r.slotLocked(c.Index()).set
	if set == nil {
		return false, nil
	}
	idx, ok := r.env.Times.Lookup(key)
	return ok && set.Contains(idx), nil
}

// Times returns the element's time membership in chronological order.
func (r *Row) Times() ([]timeindex.Interval, error) {
	c, err := r.timeSetColumn("times")
	if err != nil {
		return nil, err
	}

	r.lock()
	defer r.unlock()

	set := r.slotLocked(c.Index()).set
	if set == nil {
		return nil, nil
	}
	keys := r.env.Times.Keys(set.Indices())
	slices.SortFunc(keys, timeindex.Compare)
	return keys, nil
}

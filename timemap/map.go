package timemap

import (
	"iter"
	"slices"

	"github.com/hupe1980/attrstore/value"
)

// Map is a sorted map from time-index to a value of type V.
//
// Keys and values live in two parallel arrays of identical length. The
// first size entries are in use and keys[:size] is strictly increasing.
// When the arrays are exactly full an insertion grows them by a single
// slot: elements usually carry only a handful of timed values, so the
// map trades O(n) reallocations on long insertion runs for zero slack.
// Use NewMap with a capacity when the cardinality is known up front.
//
// A Map is not safe for concurrent use; the owning row serializes access.
type Map[V value.Scalar] struct {
	keys   []int
	values []V
	size   int
}

// NewMap creates a map with room for capacity entries.
func NewMap[V value.Scalar](capacity int) *Map[V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Map[V]{
		keys:   make([]int, capacity),
		values: make([]V, capacity),
	}
}

// search returns the position of idx and whether it is present. When
// absent, pos is the insertion point.
func (m *Map[V]) search(idx int) (int, bool) {
	return slices.BinarySearch(m.keys[:m.size], idx)
}

// Put inserts or overwrites the value at idx. It reports true only for a
// structural insertion of a new key.
func (m *Map[V]) Put(idx int, v V) bool {
	pos, found := m.search(idx)
	if found {
		m.values[pos] = v
		return false
	}

	if m.size == len(m.keys) {
		keys := make([]int, len(m.keys)+1)
		values := make([]V, len(m.values)+1)
		copy(keys, m.keys[:pos])
		copy(values, m.values[:pos])
		copy(keys[pos+1:], m.keys[pos:m.size])
		copy(values[pos+1:], m.values[pos:m.size])
		m.keys, m.values = keys, values
	} else if pos < m.size {
		copy(m.keys[pos+1:m.size+1], m.keys[pos:m.size])
		copy(m.values[pos+1:m.size+1], m.values[pos:m.size])
	}

	m.keys[pos] = idx
	m.values[pos] = v
	m.size++
	return true
}

// Remove deletes the entry at idx. It reports whether an entry was removed.
func (m *Map[V]) Remove(idx int) bool {
	pos, found := m.search(idx)
	if !found {
		return false
	}

	copy(m.keys[pos:m.size-1], m.keys[pos+1:m.size])
	copy(m.values[pos:m.size-1], m.values[pos+1:m.size])
	m.size--

	var zero V
	m.keys[m.size] = 0
	m.values[m.size] = zero
	return true
}

// Get returns the value at idx, or def when absent.
func (m *Map[V]) Get(idx int, def V) V {
	if pos, found := m.search(idx); found {
		return m.values[pos]
	}
	return def
}

// GetOrFail returns the value at idx or a *NotFoundError.
func (m *Map[V]) GetOrFail(idx int) (V, error) {
	if pos, found := m.search(idx); found {
		return m.values[pos], nil
	}
	var zero V
	return zero, &NotFoundError{Index: idx}
}

// Contains reports whether idx has an entry.
func (m *Map[V]) Contains(idx int) bool {
	_, found := m.search(idx)
	return found
}

// Len returns the number of entries.
func (m *Map[V]) Len() int { return m.size }

// IsEmpty reports whether the map has no entries.
func (m *Map[V]) IsEmpty() bool { return m.size == 0 }

// Cap returns the size of the backing arrays.
func (m *Map[V]) Cap() int { return len(m.keys) }

// Clear removes every entry and releases the backing arrays.
func (m *Map[V]) Clear() {
	m.keys = m.keys[:0:0]
	m.values = m.values[:0:0]
	m.size = 0
}

// Keys returns a copy of the time-indices in ascending order.
func (m *Map[V]) Keys() []int {
	return slices.Clone(m.keys[:m.size])
}

// Values returns a copy of the values, aligned with Keys.
func (m *Map[V]) Values() []V {
	return slices.Clone(m.values[:m.size])
}

// All iterates entries in ascending time-index order.
func (m *Map[V]) All() iter.Seq2[int, V] {
	return func(yield func(int, V) bool) {
		for i := 0; i < m.size; i++ {
			if !yield(m.keys[i], m.values[i]) {
				return
			}
		}
	}
}

// Kind returns the value kind of the map.
func (m *Map[V]) Kind() value.Kind {
	return value.KindOf[V]()
}

// Supports reports whether e is meaningful for V.
//
//	numeric kinds: every estimator
//	char:          MIN, MAX, FIRST, LAST
//	bool, string:  FIRST, LAST
func (m *Map[V]) Supports(e Estimator) bool {
	return Supports(m.Kind(), e)
}

// Supports reports whether estimator e is defined for values of kind k.
func Supports(k value.Kind, e Estimator) bool {
	switch e {
	case First, Last:
		return k.Valid()
	case Min, Max:
		return k.Orderable()
	case Sum, Average:
		return k.Numeric()
	}
	return false
}

// Aggregate applies e to the entries whose time-index appears in indices.
// indices must be in chronological order; FIRST and LAST follow it.
// Indices with no entry are skipped. An empty match yields value.Null().
func (m *Map[V]) Aggregate(indices []int, e Estimator) (value.Value, error) {
	if !m.Supports(e) {
		return value.Value{}, &UnsupportedEstimatorError{Estimator: e, Kind: m.Kind()}
	}

	matched := make([]V, 0, min(len(indices), m.size))
	for _, idx := range indices {
		if pos, found := m.search(idx); found {
			matched = append(matched, m.values[pos])
		}
	}
	return aggregate(matched, e), nil
}

// AggregateRange applies e to every entry with lo <= time-index <= hi, in
// time-index order.
func (m *Map[V]) AggregateRange(lo, hi int, e Estimator) (value.Value, error) {
	if !m.Supports(e) {
		return value.Value{}, &UnsupportedEstimatorError{Estimator: e, Kind: m.Kind()}
	}
	if lo > hi {
		return value.Null(), nil
	}

	from, _ := m.search(lo)
	to, found := m.search(hi)
	if found {
		to++
	}
	return aggregate(m.values[from:to], e), nil
}

// PutValue is the Value-typed form of Put used by rows.
func (m *Map[V]) PutValue(idx int, v value.Value) (bool, error) {
	if idx < 0 {
		return false, &InvalidIndexError{Index: idx}
	}
	native, ok := value.As[V](v)
	if !ok {
		return false, &KindMismatchError{Expected: m.Kind(), Actual: v.Kind}
	}
	return m.Put(idx, native), nil
}

// GetValue is the Value-typed form of Get.
func (m *Map[V]) GetValue(idx int) (value.Value, bool) {
	if pos, found := m.search(idx); found {
		return value.Of(m.values[pos]), true
	}
	return value.Null(), false
}

// Entries returns aligned copies of the keys and their values as Values.
func (m *Map[V]) Entries() ([]int, []value.Value) {
	vals := make([]value.Value, m.size)
	for i := 0; i < m.size; i++ {
		vals[i] = value.Of(m.values[i])
	}
	return m.Keys(), vals
}

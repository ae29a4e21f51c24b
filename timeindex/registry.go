package timeindex

import (
	"math"
	"slices"
	"sync"

	"github.com/hupe1980/attrstore/internal/posting"
	"github.com/tidwall/btree"
)

// entry is one allocated time-index.
type entry struct {
	key   Interval
	refs  int
	elems *posting.List // elements whose time set contains key
}

// item is the ordered view of an entry.
type item struct {
	key Interval
	idx int
}

func itemLess(a, b item) bool {
	return a.key.Less(b.key)
}

// Registry maps time keys to small dense integers and back.
//
// Integers are allocated on first use and reference counted by the time
// containers that hold them. When the count drops to zero the key is
// forgotten and its integer is recycled. The registry also keeps, for each
// index, the set of elements whose time set holds the key.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	rep      Representation
	byKey    map[Interval]int
	entries  []*entry
	free     []int
	order    *btree.BTreeG[item]
	maxWidth float64 // upper bound of High-Low over live keys
}

// NewRegistry creates an empty registry for keys of representation rep.
func NewRegistry(rep Representation) *Registry {
	return &Registry{
		rep:   rep,
		byKey: make(map[Interval]int),
		order: btree.NewBTreeG[item](itemLess),
	}
}

// Representation returns the key representation the registry accepts.
func (r *Registry) Representation() Representation {
	return r.rep
}

// Acquire resolves key to its time-index, allocating one if the key is
// new, and records one more holder. Resolution and retention are atomic so
// a concurrent Release cannot recycle the index in between.
func (r *Registry) Acquire(key Interval) (int, error) {
	if err := r.rep.Check(key); err != nil {
		return -1, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx, e := r.resolveLocked(key)
	e.refs++
	return idx, nil
}

// AcquireElement resolves key and records that elem's time set holds it.
// added is false when elem was already recorded, in which case no
// reference is taken.
func (r *Registry) AcquireElement(key Interval, elem uint32) (idx int, added bool, err error) {
	if err := r.rep.Check(key); err != nil {
		return -1, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx, e := r.resolveLocked(key)
	if e.elems == nil {
		e.elems = posting.New()
	}
	if e.elems.Add(elem) {
		e.refs++
		return idx, true, nil
	}
	return idx, false, nil
}

func (r *Registry) resolveLocked(key Interval) (int, *entry) {
	if idx, ok := r.byKey[key]; ok {
		return idx, r.entries[idx]
	}

	e := &entry{key: key}
	var idx int
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
		r.entries[idx] = e
	} else {
		idx = len(r.entries)
		r.entries = append(r.entries, e)
	}

	r.byKey[key] = idx
	r.order.Set(item{key: key, idx: idx})
	if w := key.High - key.Low; w > r.maxWidth {
		r.maxWidth = w
	}
	return idx, e
}

// Lookup returns the time-index of key without allocating.
func (r *Registry) Lookup(key Interval) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byKey[key]
	return idx, ok
}

// Key returns the key allocated at idx.
func (r *Registry) Key(idx int) (Interval, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.entryLocked(idx)
	if e == nil {
		return Interval{}, false
	}
	return e.key, true
}

// Keys resolves every index in indices. Unknown indices are skipped.
func (r *Registry) Keys(indices []int) []Interval {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]Interval, 0, len(indices))
	for _, idx := range indices {
		if e := r.entryLocked(idx); e != nil {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Release drops one holder of idx. The index is recycled when no holder
// remains.
func (r *Registry) Release(idx int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.entryLocked(idx)
	if e == nil {
		return &UnknownIndexError{Index: idx}
	}
	r.releaseLocked(idx, e)
	return nil
}

// ReleaseElement records that elem's time set no longer holds idx.
func (r *Registry) ReleaseElement(idx int, elem uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.entryLocked(idx)
	if e == nil {
		return &UnknownIndexError{Index: idx}
	}
	if e.elems == nil || !e.elems.Remove(elem) {
		return nil
	}
	r.releaseLocked(idx, e)
	return nil
}

func (r *Registry) releaseLocked(idx int, e *entry) {
	e.refs--
	if e.refs > 0 {
		return
	}

	delete(r.byKey, e.key)
	r.order.Delete(item{key: e.key, idx: idx})
	r.entries[idx] = nil
	r.free = append(r.free, idx)
	if r.order.Len() == 0 {
		r.maxWidth = 0
	}
}

func (r *Registry) entryLocked(idx int) *entry {
	if idx < 0 || idx >= len(r.entries) {
		return nil
	}
	return r.entries[idx]
}

// RefCount returns the number of holders of idx.
func (r *Registry) RefCount(idx int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e := r.entryLocked(idx); e != nil {
		return e.refs
	}
	return 0
}

// Overlapping returns the indices whose key overlaps q, in chronological
// order of their keys.
func (r *Registry) Overlapping(q Interval) []int {
	var out []int
	r.scanOverlapping(q, func(it item, _ *entry) {
		out = append(out, it.idx)
	})
	return out
}

// ElementsOverlapping returns the elements whose time set holds a key that
// overlaps q, in ascending store-id order.
func (r *Registry) ElementsOverlapping(q Interval) []uint32 {
	acc := posting.Get()
	defer posting.Put(acc)

	r.scanOverlapping(q, func(_ item, e *entry) {
		if e.elems != nil {
			acc.Or(e.elems)
		}
	})
	return acc.ToSlice()
}

// scanOverlapping visits overlapping entries in key order. Keys are sorted
// by Low, so no key starting before q.Low-maxWidth can reach q.
func (r *Registry) scanOverlapping(q Interval, fn func(item, *entry)) {
	if q.Validate() != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pivot := item{key: Interval{Low: q.Low - r.maxWidth, High: math.Inf(-1)}}
	r.order.Ascend(pivot, func(it item) bool {
		if it.key.Low > q.High {
			return false
		}
		if it.key.Overlaps(q) {
			fn(it, r.entries[it.idx])
		}
		return true
	})
}

// Len returns the number of allocated keys.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.order.Len()
}

// Bounds returns the smallest Low and largest High over all keys.
func (r *Registry) Bounds() (Interval, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	first, ok := r.order.Min()
	if !ok {
		return Interval{}, false
	}
	b := first.key
	r.order.Scan(func(it item) bool {
		b.High = max(b.High, it.key.High)
		return true
	})
	return b, true
}

// Snapshot returns every allocated key in chronological order.
func (r *Registry) Snapshot() []Interval {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]Interval, 0, r.order.Len())
	r.order.Scan(func(it item) bool {
		keys = append(keys, it.key)
		return true
	})
	return slices.Clip(keys)
}

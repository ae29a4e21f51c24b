package attrstore

import (
	"fmt"
	"slices"
	"sync"

	"github.com/hupe1980/attrstore/internal/errcat"
	"github.com/hupe1980/attrstore/timeindex"
	"github.com/hupe1980/attrstore/timemap"
	"github.com/hupe1980/attrstore/value"
)

// ErrGraphKeyKind indicates a static operation on a timestamped graph
// attribute or the other way round.
type ErrGraphKeyKind struct {
	Key     string
	Dynamic bool
}

func (e *ErrGraphKeyKind) Error() string {
	if e.Dynamic {
		return fmt.Sprintf("graph attribute %q holds timestamped values", e.Key)
	}
	return fmt.Sprintf("graph attribute %q holds a static value", e.Key)
}

func (e *ErrGraphKeyKind) Unwrap() error { return errcat.Unsupported }

type graphEntry struct {
	static value.Value
	times  timemap.Dynamic
}

// GraphAttributes are the attributes of the graph itself. A key holds
// either one static value or a map of timestamped values whose kind is
// fixed by the first write. Timestamped values use their own time-index
// registry, separate from the element tables.
type GraphAttributes struct {
	mu      sync.RWMutex
	times   *timeindex.Registry
	entries map[string]*graphEntry
}

func newGraphAttributes(rep timeindex.Representation) *GraphAttributes {
	return &GraphAttributes{
		times:   timeindex.NewRegistry(rep),
		entries: make(map[string]*graphEntry),
	}
}

// Keys returns every key in sorted order.
func (g *GraphAttributes) Keys() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	keys := make([]string, 0, len(g.entries))
	for k := range g.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Get returns the static value of key, or Null.
func (g *GraphAttributes) Get(key string) (value.Value, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ent, ok := g.entries[key]
	if !ok {
		return value.Null(), nil
	}
	if ent.times != nil {
		return value.Value{}, &ErrGraphKeyKind{Key: key, Dynamic: true}
	}
	return ent.static, nil
}

// Set writes the static value of key.
func (g *GraphAttributes) Set(key string, v value.Value) error {
	if v.IsNull() {
		return fmt.Errorf("%w: null value for graph attribute %q", ErrArgument, key)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if ent, ok := g.entries[key]; ok && ent.times != nil {
		return &ErrGraphKeyKind{Key: key, Dynamic: true}
	}
	g.entries[key] = &graphEntry{static: v}
	return nil
}

// GetAt returns the value of key at at, or Null.
func (g *GraphAttributes) GetAt(key string, at timeindex.Interval) (value.Value, error) {
	if err := g.times.Representation().Check(at); err != nil {
		return value.Value{}, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	ent, ok := g.entries[key]
	if !ok {
		return value.Null(), nil
	}
	if ent.times == nil {
		return value.Value{}, &ErrGraphKeyKind{Key: key}
	}
	idx, ok := g.times.Lookup(at)
	if !ok {
		return value.Null(), nil
	}
	v, ok := ent.times.GetValue(idx)
	if !ok {
		return value.Null(), nil
	}
	return v, nil
}

// SetAt writes v to key at at. It reports whether at was new for key.
func (g *GraphAttributes) SetAt(key string, at timeindex.Interval, v value.Value) (bool, error) {
	if v.IsNull() {
		return false, fmt.Errorf("%w: null value for graph attribute %q", ErrArgument, key)
	}
	if !v.Kind.Valid() {
		return false, fmt.Errorf("%w: invalid value kind %s", ErrArgument, v.Kind)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	ent, ok := g.entries[key]
	if ok && ent.times == nil {
		return false, &ErrGraphKeyKind{Key: key}
	}
	if ok && ent.times.Kind() != v.Kind {
		return false, &timemap.KindMismatchError{Expected: ent.times.Kind(), Actual: v.Kind}
	}

	idx, err := g.times.Acquire(at)
	if err != nil {
		return false, err
	}
	if !ok {
		m, err := timemap.New(v.Kind, 0)
		if err != nil {
			_ = g.times.Release(idx)
			return false, err
		}
		ent = &graphEntry{times: m}
		g.entries[key] = ent
	}
	inserted, err := ent.times.PutValue(idx, v)
	if err != nil || !inserted {
		_ = g.times.Release(idx)
	}
	return inserted, err
}

// Aggregate reduces the timestamped values of key that overlap q.
func (g *GraphAttributes) Aggregate(key string, q timeindex.Interval, e timemap.Estimator) (value.Value, error) {
	if err := q.Validate(); err != nil {
		return value.Value{}, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	ent, ok := g.entries[key]
	if !ok {
		return value.Null(), nil
	}
	if ent.times == nil {
		return value.Value{}, &ErrGraphKeyKind{Key: key}
	}
	return ent.times.Aggregate(g.times.Overlapping(q), e)
}

// Remove deletes key and returns its static value, or Null for
// timestamped keys and missing keys.
func (g *GraphAttributes) Remove(key string) value.Value {
	g.mu.Lock()
	defer g.mu.Unlock()

	ent, ok := g.entries[key]
	if !ok {
		return value.Null()
	}
	delete(g.entries, key)
	if ent.times == nil {
		return ent.static
	}
	for _, idx := range ent.times.Keys() {
		_ = g.times.Release(idx)
	}
	return value.Null()
}

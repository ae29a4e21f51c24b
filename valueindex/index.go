package valueindex

import (
	"slices"
	"sync"
	"unique"

	"github.com/hupe1980/attrstore/internal/posting"
	"github.com/hupe1980/attrstore/value"
)

// postings is the inverted index of one column.
type postings struct {
	lists  map[unique.Handle[string]]*posting.List
	values map[unique.Handle[string]]value.Value
}

func newPostings() *postings {
	return &postings{
		lists:  make(map[unique.Handle[string]]*posting.List),
		values: make(map[unique.Handle[string]]value.Value),
	}
}

// Index maps, per indexed column, each stored value to the elements that
// hold it.
//
// Only non-null values are indexed. Elements without a stored value report
// the column default; callers resolve those as the complement of Holders.
//
// Architecture:
//   - column index -> value key -> posting list of element store ids
//   - value keys are interned (value.Value.Key)
//
// An Index is safe for concurrent use.
type Index struct {
	mu   sync.RWMutex
	cols map[int]*postings
}

// New creates an empty value index.
func New() *Index {
	return &Index{
		cols: make(map[int]*postings),
	}
}

// Set moves elem from the posting of prev to the posting of next. Either
// side may be null.
func (ix *Index) Set(col int, prev, next value.Value, elem uint32) {
	if value.Equal(prev, next) {
		return
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.removeLocked(col, prev, elem)
	ix.addLocked(col, next, elem)
}

// Remove drops elem from the posting of v.
func (ix *Index) Remove(col int, v value.Value, elem uint32) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.removeLocked(col, v, elem)
}

func (ix *Index) addLocked(col int, v value.Value, elem uint32) {
	if v.IsNull() {
		return
	}
	p, ok := ix.cols[col]
	if !ok {
		p = newPostings()
		ix.cols[col] = p
	}

	key := unique.Make(v.Key())
	l, ok := p.lists[key]
	if !ok {
		l = posting.New()
		p.lists[key] = l
		p.values[key] = v
	}
	l.Add(elem)
}

func (ix *Index) removeLocked(col int, v value.Value, elem uint32) {
	if v.IsNull() {
		return
	}
	p, ok := ix.cols[col]
	if !ok {
		return
	}

	key := unique.Make(v.Key())
	l, ok := p.lists[key]
	if !ok {
		return
	}
	l.Remove(elem)
	if l.IsEmpty() {
		delete(p.lists, key)
		delete(p.values, key)
	}
	if len(p.lists) == 0 {
		delete(ix.cols, col)
	}
}

// Elements returns the elements holding v in col, in ascending order.
func (ix *Index) Elements(col int, v value.Value) []uint32 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if l := ix.listLocked(col, v); l != nil {
		return l.ToSlice()
	}
	return nil
}

// Count returns the number of elements holding v in col.
func (ix *Index) Count(col int, v value.Value) int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if l := ix.listLocked(col, v); l != nil {
		return l.Len()
	}
	return 0
}

func (ix *Index) listLocked(col int, v value.Value) *posting.List {
	if v.IsNull() {
		return nil
	}
	p, ok := ix.cols[col]
	if !ok {
		return nil
	}
	return p.lists[unique.Make(v.Key())]
}

// Values returns the distinct stored values of col in value order.
func (ix *Index) Values(col int) []value.Value {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	p, ok := ix.cols[col]
	if !ok {
		return nil
	}
	out := make([]value.Value, 0, len(p.values))
	for _, v := range p.values {
		out = append(out, v)
	}
	slices.SortFunc(out, value.Compare)
	return out
}

// Holders returns every element with a stored value in col.
func (ix *Index) Holders(col int) []uint32 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	p, ok := ix.cols[col]
	if !ok {
		return nil
	}
	acc := posting.Get()
	defer posting.Put(acc)
	for _, l := range p.lists {
		acc.Or(l)
	}
	return acc.ToSlice()
}

// DropColumn forgets every posting of col.
func (ix *Index) DropColumn(col int) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	delete(ix.cols, col)
}

// Stats returns the number of indexed columns and the total number of
// distinct values across them.
func (ix *Index) Stats() (columns, values int) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	for _, p := range ix.cols {
		values += len(p.lists)
	}
	return len(ix.cols), values
}

package posting

import (
	"iter"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// List is a set of element store ids backed by a 32-bit Roaring bitmap.
//
// A List is not safe for concurrent use; owners guard it with their own lock.
type List struct {
	rb *roaring.Bitmap
}

// listPool recycles scratch lists for query-time unions.
var listPool = sync.Pool{
	New: func() any {
		return &List{
			rb: roaring.New(),
		}
	},
}

// New creates a new empty list.
func New() *List {
	return &List{
		rb: roaring.New(),
	}
}

// Get gets a scratch list from the pool. Call Put when done.
func Get() *List {
	l := listPool.Get().(*List)
	l.rb.Clear()
	return l
}

// Put returns a scratch list to the pool.
func Put(l *List) {
	if l == nil {
		return
	}
	l.rb.Clear()
	listPool.Put(l)
}

// Add adds id and reports whether it was absent.
func (l *List) Add(id uint32) bool {
	return l.rb.CheckedAdd(id)
}

// Remove removes id and reports whether it was present.
func (l *List) Remove(id uint32) bool {
	return l.rb.CheckedRemove(id)
}

// Contains reports whether id is in the list.
func (l *List) Contains(id uint32) bool {
	return l.rb.Contains(id)
}

// IsEmpty returns true if the list is empty.
func (l *List) IsEmpty() bool {
	return l.rb.IsEmpty()
}

// Len returns the number of ids in the list.
func (l *List) Len() int {
	return int(l.rb.GetCardinality())
}

// Or merges other into l.
func (l *List) Or(other *List) {
	l.rb.Or(other.rb)
}

// AndNot removes every id of other from l.
func (l *List) AndNot(other *List) {
	l.rb.AndNot(other.rb)
}

// Clone returns a deep copy of the list.
func (l *List) Clone() *List {
	return &List{
		rb: l.rb.Clone(),
	}
}

// Clear removes all ids.
func (l *List) Clear() {
	l.rb.Clear()
}

// ToSlice returns the ids in ascending order.
func (l *List) ToSlice() []uint32 {
	return l.rb.ToArray()
}

// All iterates the ids in ascending order.
func (l *List) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := l.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// SizeInBytes returns the serialized size of the list.
func (l *List) SizeInBytes() uint64 {
	return l.rb.GetSizeInBytes()
}

// Package container implements container data structures.
package container

import (
	"sync"
	"sync/atomic"
)

const (
	// segmentBits determines the size of each segment.
	// 10 bits = 1024 items per segment.
	segmentBits = 10
	segmentSize = 1 << segmentBits
	segmentMask = segmentSize - 1
)

// SegmentedArray maps dense uint32 ids to pointers. Reads are lock-free;
// growth is serialized. Segments are never freed, so ids should be
// allocated densely.
type SegmentedArray[T any] struct {
	segments atomic.Pointer[[]*segment[T]]
	mu       sync.Mutex // Protects growth
	count    atomic.Int64
}

type segment[T any] struct {
	items [segmentSize]atomic.Pointer[T]
}

// NewSegmentedArray creates a new SegmentedArray.
func NewSegmentedArray[T any]() *SegmentedArray[T] {
	sa := &SegmentedArray[T]{}
	segments := make([]*segment[T], 0)
	sa.segments.Store(&segments)
	return sa
}

func (sa *SegmentedArray[T]) slot(index uint32) *atomic.Pointer[T] {
	segments := *sa.segments.Load()
	segIdx := int(index >> segmentBits)
	if segIdx >= len(segments) || segments[segIdx] == nil {
		return nil
	}
	return &segments[segIdx].items[index&segmentMask]
}

// Get returns the item stored at index, or nil.
func (sa *SegmentedArray[T]) Get(index uint32) *T {
	s := sa.slot(index)
	if s == nil {
		return nil
	}
	return s.Load()
}

// Set stores item at index, growing the array if necessary. A nil item
// clears the slot.
func (sa *SegmentedArray[T]) Set(index uint32, item *T) {
	s := sa.slot(index)
	if s == nil {
		if item == nil {
			return
		}
		s = sa.grow(index)
	}
	old := s.Swap(item)
	switch {
	case old == nil && item != nil:
		sa.count.Add(1)
	case old != nil && item == nil:
		sa.count.Add(-1)
	}
}

func (sa *SegmentedArray[T]) grow(index uint32) *atomic.Pointer[T] {
	sa.mu.Lock()
	defer sa.mu.Unlock()

	segIdx := int(index >> segmentBits)
	current := *sa.segments.Load()
	if segIdx < len(current) && current[segIdx] != nil {
		return &current[segIdx].items[index&segmentMask]
	}

	grown := current
	if segIdx >= len(grown) {
		grown = make([]*segment[T], segIdx+1)
		copy(grown, current)
	} else {
		grown = append([]*segment[T](nil), current...)
	}
	grown[segIdx] = &segment[T]{}
	sa.segments.Store(&grown)
	return &grown[segIdx].items[index&segmentMask]
}

// Len returns the number of non-nil items.
func (sa *SegmentedArray[T]) Len() int {
	return int(sa.count.Load())
}

// Range calls fn for every non-nil item in ascending index order until fn
// returns false.
func (sa *SegmentedArray[T]) Range(fn func(index uint32, item *T) bool) {
	segments := *sa.segments.Load()
	for segIdx, seg := range segments {
		if seg == nil {
			continue
		}
		for i := range seg.items {
			item := seg.items[i].Load()
			if item == nil {
				continue
			}
			if !fn(uint32(segIdx<<segmentBits|i), item) {
				return
			}
		}
	}
}

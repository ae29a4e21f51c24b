package timemap

import "slices"

// Set is a sorted set of time-indices with no associated values. It
// records explicit time membership of an element and follows the same
// storage and growth rules as Map.
type Set struct {
	keys []int
	size int
}

// NewSet creates a set with room for capacity indices.
func NewSet(capacity int) *Set {
	if capacity < 0 {
		capacity = 0
	}
	return &Set{keys: make([]int, capacity)}
}

// Add inserts idx and reports whether it was not already present.
func (s *Set) Add(idx int) bool {
	pos, found := slices.BinarySearch(s.keys[:s.size], idx)
	if found {
		return false
	}

	if s.size == len(s.keys) {
		keys := make([]int, len(s.keys)+1)
		copy(keys, s.keys[:pos])
		copy(keys[pos+1:], s.keys[pos:s.size])
		s.keys = keys
	} else if pos < s.size {
		copy(s.keys[pos+1:s.size+1], s.keys[pos:s.size])
	}

	s.keys[pos] = idx
	s.size++
	return true
}

// Remove deletes idx and reports whether it was present.
func (s *Set) Remove(idx int) bool {
	pos, found := slices.BinarySearch(s.keys[:s.size], idx)
	if !found {
		return false
	}
	copy(s.keys[pos:s.size-1], s.keys[pos+1:s.size])
	s.size--
	s.keys[s.size] = 0
	return true
}

// Contains reports whether idx is in the set.
func (s *Set) Contains(idx int) bool {
	_, found := slices.BinarySearch(s.keys[:s.size], idx)
	return found
}

// Indices returns a copy of the members in ascending order.
func (s *Set) Indices() []int {
	return slices.Clone(s.keys[:s.size])
}

// Len returns the number of members.
func (s *Set) Len() int { return s.size }

// IsEmpty reports whether the set has no members.
func (s *Set) IsEmpty() bool { return s.size == 0 }

// Clear removes every member and releases the backing array.
func (s *Set) Clear() {
	s.keys = s.keys[:0:0]
	s.size = 0
}

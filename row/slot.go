package row

import (
	"github.com/hupe1980/attrstore/timemap"
	"github.com/hupe1980/attrstore/value"
)

// SlotKind tags the payload of a Slot.
type SlotKind uint8

const (
	// SlotAbsent holds nothing; reads return the column default.
	SlotAbsent SlotKind = iota
	// SlotScalar holds one static value.
	SlotScalar
	// SlotTimeMap holds the timestamped values of a dynamic column.
	SlotTimeMap
	// SlotTimeSet holds the time membership of the element.
	SlotTimeSet
)

func (k SlotKind) String() string {
	switch k {
	case SlotAbsent:
		return "absent"
	case SlotScalar:
		return "scalar"
	case SlotTimeMap:
		return "timemap"
	case SlotTimeSet:
		return "timeset"
	}
	return "unknown"
}

// Slot is one attribute position of a row.
type Slot struct {
	kind   SlotKind
	scalar value.Value
	times  timemap.Dynamic
	set    *timemap.Set
}

// Kind returns the payload tag.
func (s Slot) Kind() SlotKind { return s.kind }

func scalarSlot(v value.Value) Slot {
	return Slot{kind: SlotScalar, scalar: v}
}

func timeMapSlot(m timemap.Dynamic) Slot {
	return Slot{kind: SlotTimeMap, times: m}
}

func timeSetSlot(s *timemap.Set) Slot {
	return Slot{kind: SlotTimeSet, set: s}
}

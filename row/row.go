package row

import (
	"sync"

	"github.com/hupe1980/attrstore/column"
	"github.com/hupe1980/attrstore/internal/lockorder"
	"github.com/hupe1980/attrstore/timemap"
	"github.com/hupe1980/attrstore/value"
)

// Row is the attribute storage of one element.
//
// Slot i holds the value of the column with index i. Slot 0 is the element
// identity and is always present. The slice grows lazily to exactly the
// highest index written, so rows of elements that never touched a late
// column stay short and read that column's default.
//
// Every operation runs under the row's own mutex. Notifications to the
// time registry and the value index are made while it is held, so readers
// never observe a container change without its registry change.
type Row struct {
	mu       sync.Mutex
	env      *Env
	storeID  uint32
	id       value.Value
	slots    []Slot
	detached bool
}

// New creates the row of an element with store id storeID and identity id.
func New(env *Env, storeID uint32, id value.Value) (*Row, error) {
	if id.IsNull() {
		return nil, ErrNullID
	}
	if c, ok := env.Columns.ByIndex(column.IDIndex); ok && c.Type() != id.Kind {
		return nil, &TypeMismatchError{Column: c.ID(), Expected: c.Type(), Actual: id.Kind}
	}
	return &Row{
		env:     env,
		storeID: storeID,
		id:      id,
		slots:   []Slot{scalarSlot(id)},
	}, nil
}

func (r *Row) lock() {
	if r.env.Locks != nil {
		r.env.Locks.Acquire(lockorder.Element)
	}
	r.mu.Lock()
}

func (r *Row) unlock() {
	r.mu.Unlock()
	if r.env.Locks != nil {
		r.env.Locks.Release(lockorder.Element)
	}
}

// ID returns the element identity.
func (r *Row) ID() value.Value { return r.id }

// StoreID returns the dense id the store assigned to the element.
func (r *Row) StoreID() uint32 { return r.storeID }

// Len returns the number of allocated slots.
func (r *Row) Len() int {
	r.lock()
	defer r.unlock()

	return len(r.slots)
}

// SlotKind returns the payload tag of slot i.
func (r *Row) SlotKind(i int) SlotKind {
	r.lock()
	defer r.unlock()

	if i < 0 || i >= len(r.slots) {
		return SlotAbsent
	}
	return r.slots[i].kind
}

// Detached reports whether the element has been removed from its store.
func (r *Row) Detached() bool {
	r.lock()
	defer r.unlock()

	return r.detached
}

// growLocked extends the row to exactly n slots.
func (r *Row) growLocked(n int) {
	if n <= len(r.slots) {
		return
	}
	slots := make([]Slot, n)
	copy(slots, r.slots)
	r.slots = slots
}

func (r *Row) slotLocked(i int) Slot {
	if i >= len(r.slots) {
		return Slot{}
	}
	return r.slots[i]
}

func (r *Row) checkColumn(c *column.Column) error {
	if c == nil {
		return ErrNilColumn
	}
	if !r.env.Columns.Owns(c) {
		return &ForeignColumnError{Column: c.ID()}
	}
	return nil
}

func (r *Row) checkWritable(c *column.Column) error {
	if err := r.checkColumn(c); err != nil {
		return err
	}
	if c.IsReadOnly() {
		return &ReadOnlyError{Column: c.ID()}
	}
	if c.Index() == column.LabelIndex && !r.env.LabelEnabled {
		return &UnsupportedError{Column: c.ID(), Op: "write", Reason: "element labels are disabled"}
	}
	return nil
}

// mutableLocked rejects writes to a detached row and to a column removed
// after the unlocked checks ran. Column removal clears each row under its
// lock, so a write that passes here is always cleared afterwards.
func (r *Row) mutableLocked(c *column.Column) error {
	if r.detached {
		return ErrDetached
	}
	if !r.env.Columns.Owns(c) {
		return &ForeignColumnError{Column: c.ID()}
	}
	return nil
}

func (r *Row) checkStatic(c *column.Column, op string) error {
	if c.IsTimeSet() {
		return &UnsupportedError{Column: c.ID(), Op: op, Reason: "time membership is accessed with the time set operations"}
	}
	if c.IsDynamic() {
		return &UnsupportedError{Column: c.ID(), Op: op, Reason: "column is dynamic"}
	}
	return nil
}

// Get returns the value of static column c, or its default when the
// element holds none.
func (r *Row) Get(c *column.Column) (value.Value, error) {
	if err := r.checkColumn(c); err != nil {
		return value.Value{}, err
	}
	if err := r.checkStatic(c, "get"); err != nil {
		return value.Value{}, err
	}

	r.lock()
	defer r.unlock()

	if s := r.slotLocked(c.Index()); s.kind == SlotScalar {
		return s.scalar, nil
	}
	return c.Default(), nil
}

// Set writes v to static column c. Writing the value already held is a
// no-op and does not bump the column version.
func (r *Row) Set(c *column.Column, v value.Value) error {
	if err := r.checkWritable(c); err != nil {
		return err
	}
	if c.IsTimeSet() {
		return &UnsupportedError{Column: c.ID(), Op: "set", Reason: "time membership is accessed with the time set operations"}
	}
	if c.IsDynamic() {
		return &TypeMismatchError{Column: c.ID(), Expected: c.Type(), Actual: v.Kind, Dynamic: true}
	}
	if v.IsNull() {
		return &NullValueError{Column: c.ID()}
	}
	if v.Kind != c.Type() {
		return &TypeMismatchError{Column: c.ID(), Expected: c.Type(), Actual: v.Kind}
	}

	r.lock()
	defer r.unlock()

	if err := r.mutableLocked(c); err != nil {
		return err
	}

	i := c.Index()
	r.growLocked(i + 1)

	prev := r.slots[i]
	if prev.kind == SlotScalar && value.Equal(prev.scalar, v) {
		return nil
	}

	old := value.Null()
	if prev.kind == SlotScalar {
		old = prev.scalar
	}
	r.slots[i] = scalarSlot(v)

	if c.IsIndexed() && r.env.Values != nil {
		r.env.Values.Set(i, old, v, r.storeID)
	}
	c.IncrementVersion()
	return nil
}

// Remove clears column c and returns the value it held. For dynamic
// columns every held time-index is released and Null is returned. Removing
// an absent value is a no-op that returns Null.
func (r *Row) Remove(c *column.Column) (value.Value, error) {
	if err := r.checkWritable(c); err != nil {
		return value.Value{}, err
	}
	if c.IsTimeSet() && !r.env.TimeSetEnabled {
		return value.Value{}, &UnsupportedError{Column: c.ID(), Op: "remove", Reason: "element time sets are disabled"}
	}

	r.lock()
	defer r.unlock()

	if err := r.mutableLocked(c); err != nil {
		return value.Value{}, err
	}

	old, removed, err := r.releaseSlotLocked(c)
	if err != nil {
		return value.Value{}, err
	}
	if removed {
		c.IncrementVersion()
	}
	return old, nil
}

// releaseSlotLocked empties the slot of c and notifies the collaborators.
func (r *Row) releaseSlotLocked(c *column.Column) (value.Value, bool, error) {
	return r.releaseIndexLocked(c.Index(), c.IsIndexed())
}

// releaseIndexLocked empties slot i. The release follows the slot kind, so
// it also works for a column that has already left the table.
func (r *Row) releaseIndexLocked(i int, indexed bool) (value.Value, bool, error) {
	s := r.slotLocked(i)
	if s.kind == SlotAbsent {
		return value.Null(), false, nil
	}
	r.slots[i] = Slot{}

	switch s.kind {
	case SlotScalar:
		if indexed && r.env.Values != nil {
			r.env.Values.Set(i, s.scalar, value.Null(), r.storeID)
		}
		return s.scalar, true, nil
	case SlotTimeMap:
		if err := r.releaseTimesLocked(s.times); err != nil {
			return value.Null(), true, err
		}
	case SlotTimeSet:
		for _, idx := range s.set.Indices() {
			if err := r.env.Times.ReleaseElement(idx, r.storeID); err != nil {
				return value.Null(), true, collaboratorError("release time-index", err)
			}
		}
	}
	return value.Null(), true, nil
}

func (r *Row) releaseTimesLocked(m timemap.Dynamic) error {
	for _, idx := range m.Keys() {
		if err := r.env.Times.Release(idx); err != nil {
			return collaboratorError("release time-index", err)
		}
	}
	return nil
}

// ReleaseColumn empties the slot of c ahead of the column's removal from
// its table. Read-only flags are ignored and no version is bumped.
func (r *Row) ReleaseColumn(c *column.Column) error {
	if c == nil {
		return ErrNilColumn
	}

	r.lock()
	defer r.unlock()

	_, _, err := r.releaseSlotLocked(c)
	return err
}

// Label returns the element label, or "" when unset.
func (r *Row) Label() string {
	c, ok := r.env.Columns.ByIndex(column.LabelIndex)
	if !ok {
		return ""
	}
	v, err := r.Get(c)
	if err != nil {
		return ""
	}
	return v.StringValue()
}

// SetLabel writes the element label.
func (r *Row) SetLabel(label string) error {
	c, ok := r.env.Columns.ByIndex(column.LabelIndex)
	if !ok {
		return &UnsupportedError{Op: "set label", Reason: "table has no label column"}
	}
	return r.Set(c, value.String(label))
}

// Clear releases every slot except the identity, notifying the registry and
// the value index for each. The row keeps only its identity slot.
func (r *Row) Clear() error {
	r.lock()
	defer r.unlock()

	return r.clearLocked()
}

func (r *Row) clearLocked() error {
	var firstErr error
	for i := 1; i < len(r.slots); i++ {
		if r.slots[i].kind == SlotAbsent {
			continue
		}
		// A removed column still owes its time-indices back to the
		// registry. Its value postings go with the column.
		c, ok := r.env.Columns.ByIndex(i)
		if _, _, err := r.releaseIndexLocked(i, ok && c.IsIndexed()); err != nil && firstErr == nil {
			firstErr = err
		}
		if ok {
			c.IncrementVersion()
		}
	}
	r.slots = []Slot{scalarSlot(r.id)}
	return firstErr
}

// Detach clears the row and rejects every later mutation. The lifecycle
// owner calls it when the element is destroyed.
func (r *Row) Detach() error {
	r.lock()
	defer r.unlock()

	if r.detached {
		return nil
	}
	err := r.clearLocked()
	r.detached = true
	return err
}

package column

import (
	"strings"
	"sync"

	"github.com/hupe1980/attrstore/timemap"
	"github.com/hupe1980/attrstore/value"
)

// Reserved column ids and their fixed slot positions.
const (
	IDColumn      = "id"
	LabelColumn   = "label"
	TimeSetColumn = "timeset"

	IDIndex      = 0
	LabelIndex   = 1
	TimeSetIndex = 2
)

// Table is the ordered column registry of one element table.
//
// Indices are assigned in registration order and never reused: removing a
// column leaves a permanent hole so that slot positions in existing rows
// stay valid.
type Table struct {
	mu   sync.RWMutex
	name string
	cols []*Column
	byID map[string]*Column
}

// NewTable creates a table with the three reserved columns.
func NewTable(name string) *Table {
	t := &Table{
		name: name,
		byID: make(map[string]*Column),
	}
	t.addLocked(Spec{ID: IDColumn, Title: "Id", Type: value.KindString, ReadOnly: true})
	t.addLocked(Spec{ID: LabelColumn, Title: "Label", Type: value.KindString})
	t.addLocked(Spec{ID: TimeSetColumn, Title: "Timeset", Type: value.KindBool, Dynamic: true, TimeSet: true})
	return t
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Normalize returns the lookup form of a column id.
func Normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// IsReserved reports whether id names one of the reserved columns.
func IsReserved(id string) bool {
	switch Normalize(id) {
	case IDColumn, LabelColumn, TimeSetColumn:
		return true
	}
	return false
}

// Validate checks s as a user column declaration and fills in the title.
func Validate(s Spec) (Spec, error) {
	if Normalize(s.ID) == "" {
		return s, &InvalidSpecError{ID: s.ID, Reason: "empty id"}
	}
	if !s.Type.Valid() {
		return s, &InvalidSpecError{ID: s.ID, Reason: "invalid type " + s.Type.String()}
	}
	if s.TimeSet {
		return s, &InvalidSpecError{ID: s.ID, Reason: "time set columns are reserved"}
	}
	if !s.Default.IsNull() && s.Default.Kind != s.Type {
		return s, &InvalidSpecError{ID: s.ID, Reason: "default of kind " + s.Default.Kind.String() + " for column of type " + s.Type.String()}
	}
	if s.Default.Kind == value.KindInvalid {
		s.Default = value.Null()
	}
	if s.Estimator != timemap.EstimatorInvalid {
		if !s.Estimator.Valid() {
			return s, &InvalidSpecError{ID: s.ID, Reason: "invalid estimator"}
		}
		if !s.Dynamic {
			return s, &InvalidSpecError{ID: s.ID, Reason: "estimator on a static column"}
		}
		if !timemap.Supports(s.Type, s.Estimator) {
			return s, &InvalidSpecError{ID: s.ID, Reason: "estimator " + s.Estimator.String() + " not defined for " + s.Type.String()}
		}
	}
	if s.Title == "" {
		s.Title = s.ID
	}
	return s, nil
}

// Add registers a new column at the next free index.
func (t *Table) Add(s Spec) (*Column, error) {
	s, err := Validate(s)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.byID[Normalize(s.ID)]; ok {
		return nil, &DuplicateError{ID: s.ID}
	}
	return t.addLocked(s), nil
}

func (t *Table) addLocked(s Spec) *Column {
	if s.Default.Kind == value.KindInvalid {
		s.Default = value.Null()
	}
	c := &Column{spec: s, index: len(t.cols), table: t}
	t.cols = append(t.cols, c)
	t.byID[Normalize(s.ID)] = c
	return c
}

// Remove unregisters the column with the given id. Its index is not reused.
func (t *Table) Remove(id string) (*Column, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.byID[Normalize(id)]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	if c.index <= TimeSetIndex {
		return nil, &ReservedError{ID: c.spec.ID}
	}

	delete(t.byID, Normalize(id))
	t.cols[c.index] = nil
	return c, nil
}

// Column returns the column with the given id.
func (t *Table) Column(id string) (*Column, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	c, ok := t.byID[Normalize(id)]
	return c, ok
}

// ByIndex returns the live column at slot i.
func (t *Table) ByIndex(i int) (*Column, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if i < 0 || i >= len(t.cols) || t.cols[i] == nil {
		return nil, false
	}
	return t.cols[i], true
}

// Columns returns the live columns in index order.
func (t *Table) Columns() []*Column {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*Column, 0, len(t.cols))
	for _, c := range t.cols {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the next column index, holes included.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.cols)
}

// Live returns the number of registered columns.
func (t *Table) Live() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.byID)
}

// Owns reports whether c is a live column of t.
func (t *Table) Owns(c *Column) bool {
	if c == nil || c.table != t {
		return false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	return c.index < len(t.cols) && t.cols[c.index] == c
}

package attrstore

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/attrstore/column"
	"github.com/hupe1980/attrstore/internal/container"
	"github.com/hupe1980/attrstore/internal/conv"
	"github.com/hupe1980/attrstore/internal/posting"
	"github.com/hupe1980/attrstore/row"
	"github.com/hupe1980/attrstore/timeindex"
	"github.com/hupe1980/attrstore/value"
	"github.com/hupe1980/attrstore/valueindex"
)

// Table is the element table of one kind (nodes or edges) together with
// its column metadata, time-index registry and reverse value index.
type Table struct {
	store   *Store
	name    string
	logger  *Logger
	columns *column.Table
	times   *timeindex.Registry
	values  *valueindex.Index
	env     *row.Env

	mu        sync.Mutex
	byID      map[string]*Element
	elements  *container.SegmentedArray[Element]
	allocated int
}

func newTable(s *Store, name string) *Table {
	t := &Table{
		store:    s,
		name:     name,
		logger:   s.logger.WithTable(name),
		columns:  column.NewTable(name),
		times:    timeindex.NewRegistry(s.cfg.TimeRepresentation),
		values:   valueindex.New(),
		byID:     make(map[string]*Element),
		elements: container.NewSegmentedArray[Element](),
	}
	t.env = &row.Env{
		Columns:        t.columns,
		Times:          t.times,
		Values:         t.values,
		LabelEnabled:   s.cfg.EnableElementLabel,
		TimeSetEnabled: s.cfg.EnableElementTimeSet,
	}
	if s.locks != nil {
		t.env.Locks = s.locks
	}
	return t
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// AddColumn registers a new column under the exclusive store lock.
func (t *Table) AddColumn(spec column.Spec) (*column.Column, error) {
	t.store.lock()
	defer t.store.unlock()

	c, err := t.columns.Add(spec)
	if err != nil {
		t.logger.LogColumn(context.Background(), "add column", spec.ID, -1, err)
		return nil, err
	}
	t.logger.LogColumn(context.Background(), "add column", c.ID(), c.Index(), nil)
	t.store.metrics.RecordColumns(t.name, t.columns.Live())
	return c, nil
}

// RemoveColumn unregisters a column and releases its slot in every
// element. The column index is never reused.
func (t *Table) RemoveColumn(ctx context.Context, id string) error {
	t.store.lock()
	defer t.store.unlock()

	c, err := t.columns.Remove(id)
	if err != nil {
		t.logger.LogColumn(ctx, "remove column", id, -1, err)
		return err
	}

	// The column is already gone from the table, so the release must reach
	// every element regardless of cancellation.
	err = t.forEachParallel(context.WithoutCancel(ctx), func(e *Element) error {
		return e.row.ReleaseColumn(c)
	})
	if c.IsIndexed() {
		t.values.DropColumn(c.Index())
	}

	t.logger.LogColumn(ctx, "remove column", c.ID(), c.Index(), err)
	t.store.metrics.RecordColumns(t.name, t.columns.Live())
	return err
}

// Column returns the column with the given case-insensitive id.
func (t *Table) Column(id string) (*column.Column, bool) {
	return t.columns.Column(id)
}

func (t *Table) mustColumn(id string) (*column.Column, error) {
	c, ok := t.columns.Column(id)
	if !ok {
		return nil, &column.NotFoundError{ID: id}
	}
	return c, nil
}

// Columns returns the live columns in index order.
func (t *Table) Columns() []*column.Column {
	return t.columns.Columns()
}

// Add creates an element with the given id.
func (t *Table) Add(id string) (*Element, error) {
	e, err := t.add(id)
	t.logger.LogElement(context.Background(), "add element", id, err)
	return e, err
}

func (t *Table) add(id string) (*Element, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty element id", ErrArgument)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.byID[id]; ok {
		return nil, &ErrDuplicateElement{Table: t.name, ID: id}
	}
	storeID, err := conv.IntToUint32(t.allocated)
	if err != nil {
		return nil, err
	}
	r, err := row.New(t.env, storeID, value.String(id))
	if err != nil {
		return nil, err
	}
	t.allocated++

	e := &Element{table: t, row: r, id: id, logger: t.logger.WithElement(id)}
	t.byID[id] = e
	t.elements.Set(storeID, e)
	t.store.metrics.RecordElements(t.name, len(t.byID))
	return e, nil
}

// Get returns the element with the given id.
func (t *Table) Get(id string) (*Element, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.byID[id]
	return e, ok
}

// Remove destroys the element with the given id. Its attributes are
// released and the element rejects every later mutation.
func (t *Table) Remove(id string) error {
	t.mu.Lock()
	e, ok := t.byID[id]
	if ok {
		delete(t.byID, id)
		t.elements.Set(e.row.StoreID(), nil)
		t.store.metrics.RecordElements(t.name, len(t.byID))
	}
	t.mu.Unlock()

	if !ok {
		err := &ErrElementNotFound{Table: t.name, ID: id}
		t.logger.LogElement(context.Background(), "remove element", id, err)
		return err
	}

	err := e.row.Detach()
	t.logger.LogElement(context.Background(), "remove element", id, err)
	return err
}

// Len returns the number of elements.
func (t *Table) Len() int {
	return t.elements.Len()
}

// snapshot returns the live elements ordered by store id.
func (t *Table) snapshot() []*Element {
	out := make([]*Element, 0, t.elements.Len())
	t.elements.Range(func(_ uint32, e *Element) bool {
		out = append(out, e)
		return true
	})
	return out
}

func (t *Table) resolve(ids []uint32) []*Element {
	out := make([]*Element, 0, len(ids))
	for _, id := range ids {
		if e := t.elements.Get(id); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Elements returns the live elements in creation order.
func (t *Table) Elements() []*Element {
	t.store.rlock()
	defer t.store.runlock()

	return t.snapshot()
}

// ForEach calls fn for every element in creation order until fn returns
// false. It holds the shared store lock.
func (t *Table) ForEach(fn func(*Element) bool) {
	t.store.rlock()
	defer t.store.runlock()

	for _, e := range t.snapshot() {
		if !fn(e) {
			return
		}
	}
}

// ElementsWithValue returns the elements whose static value in column id
// equals v. Elements holding no value match the column default, and Null
// matches every element without a value when the default is Null too. The
// column must be indexed.
func (t *Table) ElementsWithValue(id string, v value.Value) ([]*Element, error) {
	c, err := t.mustColumn(id)
	if err != nil {
		return nil, err
	}
	if !c.IsIndexed() || c.IsDynamic() {
		return nil, &row.UnsupportedError{Column: c.ID(), Op: "query by value", Reason: "column is not an indexed static column"}
	}
	if !v.IsNull() && v.Kind != c.Type() {
		return nil, &row.TypeMismatchError{Column: c.ID(), Expected: c.Type(), Actual: v.Kind}
	}

	t.store.rlock()
	defer t.store.runlock()

	matches := posting.Get()
	defer posting.Put(matches)
	for _, id := range t.values.Elements(c.Index(), v) {
		matches.Add(id)
	}

	if value.Equal(v, c.Default()) || (v.IsNull() && c.Default().IsNull()) {
		holders := posting.Get()
		defer posting.Put(holders)
		for _, id := range t.values.Holders(c.Index()) {
			holders.Add(id)
		}
		unset := posting.Get()
		defer posting.Put(unset)
		t.elements.Range(func(id uint32, _ *Element) bool {
			unset.Add(id)
			return true
		})
		unset.AndNot(holders)
		matches.Or(unset)
	}
	return t.resolve(matches.ToSlice()), nil
}

// ElementsAt returns the elements whose time set overlaps q.
func (t *Table) ElementsAt(q timeindex.Interval) ([]*Element, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	t.store.rlock()
	defer t.store.runlock()

	return t.resolve(t.times.ElementsOverlapping(q)), nil
}

// TimeBounds returns the smallest interval covering every live time key of
// the table.
func (t *Table) TimeBounds() (timeindex.Interval, bool) {
	return t.times.Bounds()
}

// Clear removes every attribute value of every element.
func (t *Table) Clear(ctx context.Context) error {
	t.store.lock()
	defer t.store.unlock()

	elems := t.snapshot()
	err := t.forEachParallel(ctx, func(e *Element) error {
		return e.row.Clear()
	})
	t.logger.LogClear(ctx, len(elems), err)
	return err
}

// forEachParallel runs fn on every element, stopping early when ctx is
// done. The caller holds the store lock.
func (t *Table) forEachParallel(ctx context.Context, fn func(*Element) error) error {
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	var mu sync.Mutex
	var errs []error
	for _, e := range t.snapshot() {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := fn(e); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("element %q: %w", e.id, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Stats returns a snapshot of the table's sizes.
func (t *Table) Stats() TableStats {
	cols, vals := t.values.Stats()
	return TableStats{
		Elements:       t.Len(),
		Columns:        t.columns.Live(),
		TimeKeys:       t.times.Len(),
		IndexedColumns: cols,
		IndexedValues:  vals,
	}
}

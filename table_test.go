package attrstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/attrstore/column"
	"github.com/hupe1980/attrstore/row"
	"github.com/hupe1980/attrstore/timeindex"
	"github.com/hupe1980/attrstore/value"
)

func ids(elems []*Element) []string {
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		out = append(out, e.ID())
	}
	return out
}

func TestTable_AddGetRemove(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	s := newTestStore(t, WithMetricsCollector(metrics))
	nodes := s.Nodes()

	a, err := nodes.Add("a")
	require.NoError(t, err)
	assert.Equal(t, "a", a.ID())
	assert.Equal(t, uint32(0), a.StoreID())
	assert.Same(t, nodes, a.Table())

	_, err = nodes.Add("a")
	var dup *ErrDuplicateElement
	require.ErrorAs(t, err, &dup)
	assert.ErrorIs(t, err, ErrArgument)

	_, err = nodes.Add("")
	assert.ErrorIs(t, err, ErrArgument)

	b, err := nodes.Add("b")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), b.StoreID())
	assert.Equal(t, 2, nodes.Len())
	assert.Equal(t, int64(2), metrics.GetStats().Nodes)

	got, ok := nodes.Get("b")
	require.True(t, ok)
	assert.Same(t, b, got)

	require.NoError(t, nodes.Remove("a"))
	assert.True(t, a.Detached())
	assert.ErrorIs(t, a.SetLabel("x"), row.ErrDetached)
	_, ok = nodes.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, nodes.Len())
	assert.Equal(t, int64(1), metrics.GetStats().Nodes)

	var nf *ErrElementNotFound
	require.ErrorAs(t, nodes.Remove("a"), &nf)
	assert.ErrorIs(t, nodes.Remove("a"), ErrNotFound)

	// Ids are not reused.
	c, err := nodes.Add("a")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), c.StoreID())
	assert.Equal(t, []string{"b", "a"}, ids(nodes.Elements()))
}

func TestTable_RemoveColumn(t *testing.T) {
	s := newTestStore(t)
	nodes := s.Nodes()
	_, err := nodes.AddColumn(column.Spec{ID: "age", Type: value.KindInt32, Indexed: true})
	require.NoError(t, err)
	_, err = nodes.AddColumn(column.Spec{ID: "score", Type: value.KindInt32, Dynamic: true})
	require.NoError(t, err)
	late, err := nodes.AddColumn(column.Spec{ID: "late", Type: value.KindBool})
	require.NoError(t, err)

	for i := range 10 {
		n, err := nodes.Add(fmt.Sprintf("n%d", i))
		require.NoError(t, err)
		require.NoError(t, n.SetAttribute("age", value.Int32(int32(i))))
		_, err = n.SetTimeAttribute("score", timeindex.Timestamp(float64(i)), value.Int32(1))
		require.NoError(t, err)
	}
	require.Equal(t, 10, nodes.Stats().TimeKeys)
	require.Equal(t, 10, nodes.Stats().IndexedValues)

	ctx := context.Background()
	require.NoError(t, nodes.RemoveColumn(ctx, "score"))
	require.NoError(t, nodes.RemoveColumn(ctx, "AGE"))

	stats := nodes.Stats()
	assert.Equal(t, 0, stats.TimeKeys)
	assert.Equal(t, 0, stats.IndexedColumns)
	assert.Equal(t, 4, stats.Columns)

	_, ok := nodes.Column("age")
	assert.False(t, ok)
	next, err := nodes.AddColumn(column.Spec{ID: "age", Type: value.KindInt64})
	require.NoError(t, err)
	assert.Greater(t, next.Index(), late.Index(), "indices are never reused")

	n, _ := nodes.Get("n3")
	v, err := n.Attribute("age")
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	err = nodes.RemoveColumn(ctx, "score")
	var cnf *column.NotFoundError
	assert.ErrorAs(t, err, &cnf)
	assert.ErrorIs(t, nodes.RemoveColumn(ctx, column.LabelColumn), ErrArgument)
}

func TestTable_ElementsWithValue(t *testing.T) {
	s := newTestStore(t)
	nodes := s.Nodes()
	_, err := nodes.AddColumn(column.Spec{ID: "age", Type: value.KindInt32, Default: value.Int32(18), Indexed: true})
	require.NoError(t, err)
	_, err = nodes.AddColumn(column.Spec{ID: "city", Type: value.KindString, Indexed: true})
	require.NoError(t, err)
	_, err = nodes.AddColumn(column.Spec{ID: "plain", Type: value.KindString})
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c", "d"} {
		_, err := nodes.Add(id)
		require.NoError(t, err)
	}
	a, _ := nodes.Get("a")
	b, _ := nodes.Get("b")
	c, _ := nodes.Get("c")
	require.NoError(t, a.SetAttribute("age", value.Int32(30)))
	require.NoError(t, b.SetAttribute("age", value.Int32(18)))
	require.NoError(t, c.SetAttribute("age", value.Int32(30)))
	require.NoError(t, a.SetAttribute("city", value.String("Berlin")))

	tests := []struct {
		name   string
		column string
		v      value.Value
		want   []string
	}{
		{"stored value", "age", value.Int32(30), []string{"a", "c"}},
		{"default matches unset and stored", "age", value.Int32(18), []string{"b", "d"}},
		{"no match", "age", value.Int32(99), []string{}},
		{"null default matches unset", "city", value.Null(), []string{"b", "c", "d"}},
		{"null against non-null default", "age", value.Null(), []string{}},
		{"string", "city", value.String("Berlin"), []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := nodes.ElementsWithValue(tt.column, tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	_, err = nodes.ElementsWithValue("plain", value.String("x"))
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = nodes.ElementsWithValue("age", value.String("x"))
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = nodes.ElementsWithValue("missing", value.String("x"))
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, nodes.Remove("c"))
	got, err := nodes.ElementsWithValue("age", value.Int32(30))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestTable_ElementsAt(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeRepresentation = timeindex.RepresentationInterval
	s := newTestStore(t, WithConfig(cfg))
	nodes := s.Nodes()

	a, err := nodes.Add("a")
	require.NoError(t, err)
	b, err := nodes.Add("b")
	require.NoError(t, err)

	_, err = a.AddTime(timeindex.Span(2000, 2010))
	require.NoError(t, err)
	_, err = b.AddTime(timeindex.Span(2005, 2006))
	require.NoError(t, err)
	_, err = b.AddTime(timeindex.Span(2020, 2030))
	require.NoError(t, err)

	got, err := nodes.ElementsAt(timeindex.Timestamp(2005.5))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(got))

	got, err = nodes.ElementsAt(timeindex.Span(2011, 2025))
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(got))

	got, err = nodes.ElementsAt(timeindex.Timestamp(1990))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = nodes.ElementsAt(timeindex.Span(5, 1))
	assert.ErrorIs(t, err, ErrArgument)

	bounds, ok := nodes.TimeBounds()
	require.True(t, ok)
	assert.Equal(t, timeindex.Span(2000, 2030), bounds)
	_, ok = s.Edges().TimeBounds()
	assert.False(t, ok)
}

func TestTable_ForEach(t *testing.T) {
	s := newTestStore(t)
	for i := range 5 {
		_, err := s.Edges().Add(fmt.Sprintf("e%d", i))
		require.NoError(t, err)
	}

	var seen []string
	s.Edges().ForEach(func(e *Element) bool {
		seen = append(seen, e.ID())
		return len(seen) < 3
	})
	assert.Equal(t, []string{"e0", "e1", "e2"}, seen)
}

func TestTable_ClearCancelled(t *testing.T) {
	s := newTestStore(t)
	for i := range 3 {
		_, err := s.Nodes().Add(fmt.Sprintf("n%d", i))
		require.NoError(t, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Nodes().Clear(ctx), context.Canceled)
}

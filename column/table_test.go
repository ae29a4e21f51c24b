package column

import (
	"testing"

	"github.com/hupe1980/attrstore/internal/errcat"
	"github.com/hupe1980/attrstore/timemap"
	"github.com/hupe1980/attrstore/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable_Reserved(t *testing.T) {
	tbl := NewTable("nodes")
	assert.Equal(t, "nodes", tbl.Name())
	assert.Equal(t, 3, tbl.Len())

	id, ok := tbl.ByIndex(IDIndex)
	require.True(t, ok)
	assert.Equal(t, IDColumn, id.ID())
	assert.True(t, id.IsReadOnly())

	label, ok := tbl.Column("LABEL")
	require.True(t, ok)
	assert.Equal(t, LabelIndex, label.Index())
	assert.Equal(t, value.KindString, label.Type())

	ts, ok := tbl.Column(TimeSetColumn)
	require.True(t, ok)
	assert.True(t, ts.IsTimeSet())
	assert.True(t, ts.IsDynamic())

	_, err := tbl.Remove(LabelColumn)
	assert.ErrorIs(t, err, errcat.Argument)
}

func TestTable_Add(t *testing.T) {
	tbl := NewTable("nodes")

	c, err := tbl.Add(Spec{ID: "Age", Type: value.KindInt32, Default: value.Int32(18), Indexed: true})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Index())
	assert.Equal(t, "Age", c.Title())
	assert.Equal(t, value.Int32(18), c.Default())
	assert.True(t, tbl.Owns(c))

	got, ok := tbl.Column("age")
	require.True(t, ok)
	assert.Same(t, c, got)

	_, err = tbl.Add(Spec{ID: "AGE", Type: value.KindInt64})
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.ErrorIs(t, err, errcat.Argument)

	plain, err := tbl.Add(Spec{ID: "name", Type: value.KindString})
	require.NoError(t, err)
	assert.True(t, plain.Default().IsNull())
}

func TestTable_AddInvalid(t *testing.T) {
	tbl := NewTable("edges")

	tests := []struct {
		name string
		spec Spec
	}{
		{"empty id", Spec{ID: " ", Type: value.KindInt32}},
		{"invalid type", Spec{ID: "x"}},
		{"null type", Spec{ID: "x", Type: value.KindNull}},
		{"time set", Spec{ID: "x", Type: value.KindBool, TimeSet: true}},
		{"wrong default", Spec{ID: "x", Type: value.KindInt32, Default: value.Int64(1)}},
		{"estimator on static", Spec{ID: "x", Type: value.KindInt32, Estimator: timemap.Sum}},
		{"unsupported estimator", Spec{ID: "x", Type: value.KindString, Dynamic: true, Estimator: timemap.Average}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tbl.Add(tt.spec)
			assert.ErrorIs(t, err, errcat.Argument)
		})
	}
	assert.Equal(t, 3, tbl.Len())
}

func TestTable_RemoveLeavesHole(t *testing.T) {
	tbl := NewTable("nodes")

	a, err := tbl.Add(Spec{ID: "a", Type: value.KindInt32})
	require.NoError(t, err)
	_, err = tbl.Add(Spec{ID: "b", Type: value.KindInt32})
	require.NoError(t, err)

	removed, err := tbl.Remove("A")
	require.NoError(t, err)
	assert.Same(t, a, removed)
	assert.False(t, tbl.Owns(a))

	_, ok := tbl.ByIndex(a.Index())
	assert.False(t, ok)
	assert.Equal(t, 5, tbl.Len())
	assert.Equal(t, 4, tbl.Live())

	again, err := tbl.Add(Spec{ID: "a", Type: value.KindString})
	require.NoError(t, err)
	assert.Equal(t, 5, again.Index())

	ids := make([]string, 0)
	for _, c := range tbl.Columns() {
		ids = append(ids, c.ID())
	}
	assert.Equal(t, []string{"id", "label", "timeset", "b", "a"}, ids)

	_, err = tbl.Remove("missing")
	assert.ErrorIs(t, err, errcat.NotFound)
}

func TestTable_OwnsForeignColumn(t *testing.T) {
	nodes := NewTable("nodes")
	edges := NewTable("edges")

	c, err := edges.Add(Spec{ID: "weight", Type: value.KindFloat64})
	require.NoError(t, err)
	assert.False(t, nodes.Owns(c))
	assert.False(t, nodes.Owns(nil))
}

func TestColumn_Version(t *testing.T) {
	tbl := NewTable("nodes")
	c, err := tbl.Add(Spec{ID: "v", Type: value.KindFloat64, Dynamic: true, Estimator: timemap.Average})
	require.NoError(t, err)

	assert.Equal(t, uint64(0), c.Version())
	assert.Equal(t, uint64(1), c.IncrementVersion())
	assert.Equal(t, uint64(1), c.Version())
	assert.Equal(t, timemap.Average, c.Estimator())
	assert.Same(t, tbl, c.Table())
}

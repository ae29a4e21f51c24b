package promcollector

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/attrstore"
	"github.com/hupe1980/attrstore/column"
	"github.com/hupe1980/attrstore/timeindex"
	"github.com/hupe1980/attrstore/value"
)

func TestCollector_Records(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.RecordWrite(attrstore.OpSet, time.Microsecond, nil)
	c.RecordWrite(attrstore.OpSet, time.Microsecond, errors.New("boom"))
	c.RecordRead(attrstore.OpAggregate, time.Millisecond, nil)
	c.RecordElements(attrstore.NodeTable, 12)
	c.RecordColumns(attrstore.NodeTable, 5)

	require.Equal(t, float64(1), testutil.ToFloat64(c.ops.WithLabelValues("write", attrstore.OpSet, "ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(c.ops.WithLabelValues("write", attrstore.OpSet, "error")))
	require.Equal(t, float64(1), testutil.ToFloat64(c.ops.WithLabelValues("read", attrstore.OpAggregate, "ok")))
	require.Equal(t, float64(12), testutil.ToFloat64(c.elements.WithLabelValues(attrstore.NodeTable)))
	require.Equal(t, float64(5), testutil.ToFloat64(c.columns.WithLabelValues(attrstore.NodeTable)))
}

func TestCollector_Registration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	// Vec families only appear once a child exists.
	c.RecordRead(attrstore.OpGet, 0, nil)
	c.RecordElements(attrstore.EdgeTable, 0)
	c.RecordColumns(attrstore.EdgeTable, 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 4)

	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	require.True(t, names["attrstore_operation_latency_seconds"])
	require.True(t, names["attrstore_operations_total"])
	require.True(t, names["attrstore_elements"])
	require.True(t, names["attrstore_columns"])
}

func TestCollector_WiredIntoStore(t *testing.T) {
	c := New(prometheus.NewRegistry())
	s, err := attrstore.New(attrstore.WithMetricsCollector(c))
	require.NoError(t, err)

	_, err = s.Nodes().AddColumn(column.Spec{ID: "score", Type: value.KindInt32, Dynamic: true})
	require.NoError(t, err)
	n, err := s.Nodes().Add("n1")
	require.NoError(t, err)
	_, err = n.SetTimeAttribute("score", timeindex.Timestamp(1), value.Int32(3))
	require.NoError(t, err)

	require.Equal(t, float64(1), testutil.ToFloat64(c.ops.WithLabelValues("write", attrstore.OpSetTime, "ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(c.elements.WithLabelValues(attrstore.NodeTable)))
	require.Equal(t, float64(4), testutil.ToFloat64(c.columns.WithLabelValues(attrstore.NodeTable)))
}

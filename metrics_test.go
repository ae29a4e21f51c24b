package attrstore

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	b := &BasicMetricsCollector{}
	assert.Equal(t, BasicMetricsStats{}, b.GetStats())

	b.RecordRead(OpGet, 10*time.Nanosecond, nil)
	b.RecordRead(OpAggregate, 30*time.Nanosecond, errors.New("boom"))
	b.RecordWrite(OpSet, 5*time.Nanosecond, nil)
	b.RecordElements(NodeTable, 3)
	b.RecordElements(EdgeTable, 7)
	b.RecordElements("other", 100)
	b.RecordColumns(NodeTable, 4)

	assert.Equal(t, BasicMetricsStats{
		ReadCount:      2,
		ReadErrors:     1,
		ReadAvgNanos:   20,
		WriteCount:     1,
		WriteAvgNanos:  5,
		AggregateCount: 1,
		Nodes:          3,
		Edges:          7,
	}, b.GetStats())
}

func TestNoopMetricsCollector(t *testing.T) {
	var mc MetricsCollector = NoopMetricsCollector{}
	mc.RecordRead(OpGet, time.Second, nil)
	mc.RecordWrite(OpSet, time.Second, nil)
	mc.RecordElements(NodeTable, 1)
	mc.RecordColumns(NodeTable, 1)
}

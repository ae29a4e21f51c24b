package attrstore

import (
	"sync/atomic"
	"time"
)

// Operation names passed to MetricsCollector.
const (
	OpGet            = "get"
	OpSet            = "set"
	OpRemove         = "remove"
	OpGetTime        = "get_time"
	OpSetTime        = "set_time"
	OpRemoveTime     = "remove_time"
	OpSetTimeEntries = "set_time_entries"
	OpAggregate      = "aggregate"
	OpMarkTime       = "mark_time"
	OpUnmarkTime     = "unmark_time"
	OpClear          = "clear"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus; see the promcollector package.
type MetricsCollector interface {
	// RecordRead is called after each attribute read. op is one of the Op
	// constants, err is nil if successful.
	RecordRead(op string, duration time.Duration, err error)

	// RecordWrite is called after each attribute mutation.
	RecordWrite(op string, duration time.Duration, err error)

	// RecordElements is called whenever the element count of a table changes.
	RecordElements(table string, count int)

	// RecordColumns is called whenever the live column count of a table changes.
	RecordColumns(table string, count int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRead(string, time.Duration, error)  {}
func (NoopMetricsCollector) RecordWrite(string, time.Duration, error) {}
func (NoopMetricsCollector) RecordElements(string, int)               {}
func (NoopMetricsCollector) RecordColumns(string, int)                {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ReadCount       atomic.Int64
	ReadErrors      atomic.Int64
	ReadTotalNanos  atomic.Int64
	WriteCount      atomic.Int64
	WriteErrors     atomic.Int64
	WriteTotalNanos atomic.Int64
	AggregateCount  atomic.Int64
	Nodes           atomic.Int64
	Edges           atomic.Int64
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(op string, duration time.Duration, err error) {
	b.ReadCount.Add(1)
	b.ReadTotalNanos.Add(duration.Nanoseconds())
	if op == OpAggregate {
		b.AggregateCount.Add(1)
	}
	if err != nil {
		b.ReadErrors.Add(1)
	}
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(_ string, duration time.Duration, err error) {
	b.WriteCount.Add(1)
	b.WriteTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.WriteErrors.Add(1)
	}
}

// RecordElements implements MetricsCollector.
func (b *BasicMetricsCollector) RecordElements(table string, count int) {
	switch table {
	case NodeTable:
		b.Nodes.Store(int64(count))
	case EdgeTable:
		b.Edges.Store(int64(count))
	}
}

// RecordColumns implements MetricsCollector.
func (b *BasicMetricsCollector) RecordColumns(string, int) {}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ReadCount:      b.ReadCount.Load(),
		ReadErrors:     b.ReadErrors.Load(),
		ReadAvgNanos:   avg(b.ReadTotalNanos.Load(), b.ReadCount.Load()),
		WriteCount:     b.WriteCount.Load(),
		WriteErrors:    b.WriteErrors.Load(),
		WriteAvgNanos:  avg(b.WriteTotalNanos.Load(), b.WriteCount.Load()),
		AggregateCount: b.AggregateCount.Load(),
		Nodes:          b.Nodes.Load(),
		Edges:          b.Edges.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ReadCount      int64
	ReadErrors     int64
	ReadAvgNanos   int64
	WriteCount     int64
	WriteErrors    int64
	WriteAvgNanos  int64
	AggregateCount int64
	Nodes          int64
	Edges          int64
}

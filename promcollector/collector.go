// Package promcollector exports attrstore operation metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	s, _ := attrstore.New(attrstore.WithMetricsCollector(promcollector.New(reg)))
package promcollector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/attrstore"
)

var _ attrstore.MetricsCollector = (*Collector)(nil)

// Collector implements attrstore.MetricsCollector with Prometheus metrics.
type Collector struct {
	opLatency *prometheus.HistogramVec
	ops       *prometheus.CounterVec
	elements  *prometheus.GaugeVec
	columns   *prometheus.GaugeVec
}

// New creates a Collector and registers its metrics with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "attrstore_operation_latency_seconds",
			Help:    "Latency of attribute operations",
			Buckets: prometheus.ExponentialBuckets(1e-7, 4, 10),
		}, []string{"op"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attrstore_operations_total",
			Help: "Total attribute operations by kind, operation and outcome",
		}, []string{"kind", "op", "status"}),
		elements: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "attrstore_elements",
			Help: "Number of elements per table",
		}, []string{"table"}),
		columns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "attrstore_columns",
			Help: "Number of live columns per table",
		}, []string{"table"}),
	}

	reg.MustRegister(c.opLatency, c.ops, c.elements, c.columns)
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordRead implements attrstore.MetricsCollector.
func (c *Collector) RecordRead(op string, duration time.Duration, err error) {
	c.opLatency.WithLabelValues(op).Observe(duration.Seconds())
	c.ops.WithLabelValues("read", op, status(err)).Inc()
}

// RecordWrite implements attrstore.MetricsCollector.
func (c *Collector) RecordWrite(op string, duration time.Duration, err error) {
	c.opLatency.WithLabelValues(op).Observe(duration.Seconds())
	c.ops.WithLabelValues("write", op, status(err)).Inc()
}

// RecordElements implements attrstore.MetricsCollector.
func (c *Collector) RecordElements(table string, count int) {
	c.elements.WithLabelValues(table).Set(float64(count))
}

// RecordColumns implements attrstore.MetricsCollector.
func (c *Collector) RecordColumns(table string, count int) {
	c.columns.WithLabelValues(table).Set(float64(count))
}

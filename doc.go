// Package attrstore is an in-memory attribute store for graph elements.
//
// Nodes and edges live in two tables. Each table has an ordered set of
// columns; a column is either static (one value per element) or dynamic
// (values keyed by timestamp or interval). Column positions are stable:
// removing a column leaves a hole, so element rows never shift.
//
// # Quick Start
//
//	s, _ := attrstore.New()
//	age, _ := s.Nodes().AddColumn(column.Spec{ID: "age", Type: value.KindInt32, Indexed: true})
//	score, _ := s.Nodes().AddColumn(column.Spec{ID: "score", Type: value.KindFloat64, Dynamic: true})
//
//	n, _ := s.Nodes().Add("n1")
//	_ = n.SetAttribute(age.ID(), value.Int32(42))
//	_, _ = n.SetTimeAttribute(score.ID(), timeindex.Timestamp(2020), value.Float64(0.5))
//	_, _ = n.SetTimeAttribute(score.ID(), timeindex.Timestamp(2021), value.Float64(1.5))
//
//	avg, _ := n.AggregateAttributeWith(score.ID(), timeindex.Infinite, timemap.Average)
//
// # Time keys
//
// A store uses either timestamps or intervals as time keys, fixed by
// Config.TimeRepresentation. Every distinct key is mapped to a small integer
// time-index by a per-table registry that counts references and recycles
// indices once no element uses them. Range reads resolve the query to the
// overlapping indices in chronological order and reduce the matching
// values with an Estimator (min, max, first, last, average, sum).
//
// # Concurrency
//
// Every element has its own lock, so writes to different elements never
// contend. The store lock is only taken by operations spanning a whole
// table (adding and removing columns, Clear, ForEach, value and time
// queries) and by Update and View. The store lock is always acquired first; enable
// Config.LockOrderChecks in tests to turn violations into panics.
//
// # Configuration
//
// Stores are configured with functional options. Config can also be read
// from YAML with LoadConfig, which additionally honours ATTRSTORE_*
// environment overrides.
package attrstore

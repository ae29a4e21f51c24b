// Package testutil provides testing utilities for attrstore.
//
// This package is intended for use in tests and benchmarks only.
// It provides a deterministic, thread-safe RNG, generators for time-indexed
// workloads and a naive reference map used as an oracle.
//
// # Workload Generation
//
//	rng := testutil.NewRNG(seed)
//	ops := rng.MapOps(1000, 64, 0.2)       // Zipf-skewed put/remove mix
//	ts := rng.Timestamps(100, 0, 1e6)      // distinct ascending timestamps
//
// # Oracle
//
//	ref := testutil.NewReference()
//	inserted := ref.Apply(op)              // what Put/Remove must report
package testutil

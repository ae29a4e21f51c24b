package attrstore

import (
	"context"
	"errors"
	"sync"

	"github.com/hupe1980/attrstore/internal/lockorder"
	"github.com/hupe1980/attrstore/timeindex"
)

// Table names.
const (
	NodeTable = "nodes"
	EdgeTable = "edges"
)

// Store owns the node and edge tables and the graph-level attributes.
//
// Single-element operations only take that element's lock. The store lock
// is taken by composite operations that must see every element of a table
// at once: adding and removing columns, bulk clears, iteration, and the
// value and time queries. Callers can run their own composite sequences with Update and
// View. The store lock is always acquired before any element lock.
type Store struct {
	mu      sync.RWMutex
	cfg     Config
	logger  *Logger
	metrics MetricsCollector
	locks   *lockorder.Checker

	nodes *Table
	edges *Table
	graph *GraphAttributes
}

// New creates an empty store. Columns declared in the config are
// registered on their tables.
func New(optFns ...Option) (*Store, error) {
	var o options
	for _, fn := range optFns {
		fn(&o)
	}

	cfg := DefaultConfig()
	if o.config != nil {
		cfg = *o.config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Store{
		cfg:     cfg,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}
	if s.logger == nil {
		s.logger = NoopLogger()
	}
	if s.metrics == nil {
		s.metrics = NoopMetricsCollector{}
	}
	if cfg.LockOrderChecks {
		s.locks = lockorder.New()
	}

	s.nodes = newTable(s, NodeTable)
	s.edges = newTable(s, EdgeTable)
	s.graph = newGraphAttributes(cfg.TimeRepresentation)

	for _, t := range []struct {
		table *Table
		cols  []ColumnConfig
	}{{s.nodes, cfg.NodeColumns}, {s.edges, cfg.EdgeColumns}} {
		for _, cc := range t.cols {
			spec, err := cc.Spec()
			if err != nil {
				return nil, err
			}
			if _, err := t.table.AddColumn(spec); err != nil {
				return nil, err
			}
		}
	}

	s.logger.Info("store created",
		"time_representation", cfg.TimeRepresentation.String(),
		"node_columns", len(cfg.NodeColumns),
		"edge_columns", len(cfg.EdgeColumns),
	)
	return s, nil
}

// Config returns the configuration the store was built with.
func (s *Store) Config() Config { return s.cfg }

// Nodes returns the node table.
func (s *Store) Nodes() *Table { return s.nodes }

// Edges returns the edge table.
func (s *Store) Edges() *Table { return s.edges }

// Graph returns the graph-level attributes.
func (s *Store) Graph() *GraphAttributes { return s.graph }

// Representation returns the time key representation of the store.
func (s *Store) Representation() timeindex.Representation { return s.cfg.TimeRepresentation }

func (s *Store) lock() {
	if s.locks != nil {
		s.locks.Acquire(lockorder.Store)
	}
	s.mu.Lock()
}

func (s *Store) unlock() {
	s.mu.Unlock()
	if s.locks != nil {
		s.locks.Release(lockorder.Store)
	}
}

func (s *Store) rlock() {
	if s.locks != nil {
		s.locks.Acquire(lockorder.Store)
	}
	s.mu.RLock()
}

func (s *Store) runlock() {
	s.mu.RUnlock()
	if s.locks != nil {
		s.locks.Release(lockorder.Store)
	}
}

// Update runs fn under the exclusive store lock. fn may use element
// operations freely but must not call other store-locking methods:
// AddColumn, RemoveColumn, Elements, ForEach, ElementsWithValue,
// ElementsAt, Clear and ClearAll.
func (s *Store) Update(fn func() error) error {
	s.lock()
	defer s.unlock()

	return fn()
}

// View runs fn under the shared store lock. The same restriction as for
// Update applies.
func (s *Store) View(fn func() error) error {
	s.rlock()
	defer s.runlock()

	return fn()
}

// ClearAll removes every attribute value of every element in both tables.
// Elements and columns stay registered.
func (s *Store) ClearAll(ctx context.Context) error {
	return errors.Join(s.nodes.Clear(ctx), s.edges.Clear(ctx))
}

// Stats is a point-in-time summary of a store.
type Stats struct {
	Nodes TableStats
	Edges TableStats
	// GraphKeys is the number of graph-level attribute keys.
	GraphKeys int
}

// TableStats summarizes one table.
type TableStats struct {
	Elements int
	// Columns counts live columns, reserved ones included.
	Columns int
	// TimeKeys is the number of distinct live time keys.
	TimeKeys int
	// IndexedColumns and IndexedValues describe the reverse value index.
	IndexedColumns int
	IndexedValues  int
}

// Stats returns a snapshot of the store's sizes.
func (s *Store) Stats() Stats {
	return Stats{
		Nodes:     s.nodes.Stats(),
		Edges:     s.edges.Stats(),
		GraphKeys: len(s.graph.Keys()),
	}
}

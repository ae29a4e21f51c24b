package row

import (
	"fmt"
	"testing"
	"time"

	"github.com/hupe1980/attrstore/internal/lockorder"
	"github.com/hupe1980/attrstore/timeindex"
	"github.com/hupe1980/attrstore/timemap"
	"github.com/hupe1980/attrstore/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestConcurrent_SameElementSerializes(t *testing.T) {
	f := newFixture(t, timeindex.RepresentationTimestamp)
	r := f.newRow(t, "n1")

	const workers, perWorker = 8, 50

	var g errgroup.Group
	for w := range workers {
		g.Go(func() error {
			for i := range perWorker {
				ts := timeindex.Timestamp(float64(w*perWorker + i))
				if _, err := r.SetTime(f.score, ts, value.Int32(int32(w))); err != nil {
					return err
				}
				if err := r.Set(f.name, value.String(fmt.Sprintf("w%d-%d", w, i))); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	keys, _, err := r.TimeEntries(f.score)
	require.NoError(t, err)
	assert.Len(t, keys, workers*perWorker)
	assert.Equal(t, uint64(workers*perWorker), f.score.Version())
	assert.Equal(t, workers*perWorker, f.times.Len())

	sum, err := r.Aggregate(f.score, timeindex.Infinite, timemap.Sum)
	require.NoError(t, err)
	assert.Equal(t, value.Int64(perWorker*(0+1+2+3+4+5+6+7)), sum)

	name, err := r.Get(f.name)
	require.NoError(t, err)
	assert.Contains(t, name.StringValue(), fmt.Sprintf("-%d", perWorker-1), "last write of some worker wins")
}

func TestConcurrent_SharedKeysAcrossElements(t *testing.T) {
	f := newFixture(t, timeindex.RepresentationTimestamp)

	rows := make([]*Row, 16)
	for i := range rows {
		rows[i] = f.newRow(t, fmt.Sprintf("n%d", i))
	}

	var g errgroup.Group
	for _, r := range rows {
		g.Go(func() error {
			for i := range 20 {
				ts := timeindex.Timestamp(float64(i))
				if _, err := r.SetTime(f.weight, ts, value.Float64(float64(i))); err != nil {
					return err
				}
				if _, err := r.MarkTime(ts); err != nil {
					return err
				}
			}
			for i := range 10 {
				if _, err := r.RemoveTime(f.weight, timeindex.Timestamp(float64(i))); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 20, f.times.Len())
	idx, ok := f.times.Lookup(timeindex.Timestamp(15))
	require.True(t, ok)
	assert.Equal(t, 2*len(rows), f.times.RefCount(idx))
	idx, ok = f.times.Lookup(timeindex.Timestamp(5))
	require.True(t, ok)
	assert.Equal(t, len(rows), f.times.RefCount(idx))
	assert.Len(t, f.times.ElementsOverlapping(timeindex.Timestamp(5)), len(rows))

	for _, r := range rows {
		require.NoError(t, r.Clear())
	}
	assert.Equal(t, 0, f.times.Len())
}

func TestConcurrent_DistinctElementsDoNotBlock(t *testing.T) {
	f := newFixture(t, timeindex.RepresentationTimestamp)
	a := f.newRow(t, "a")
	b := f.newRow(t, "b")

	a.mu.Lock()
	defer a.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		_, err := b.SetTime(f.score, timeindex.Timestamp(1), value.Int32(1))
		if err == nil {
			err = b.Set(f.age, value.Int32(3))
		}
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("write to b blocked while a was locked")
	}
}

// storeReachingIndex simulates a value index that calls back into the store
// while a row lock is held.
type storeReachingIndex struct {
	checker *lockorder.Checker
}

func (s storeReachingIndex) Set(int, value.Value, value.Value, uint32) {
	s.checker.Acquire(lockorder.Store)
	s.checker.Release(lockorder.Store)
}

func TestLockOrder(t *testing.T) {
	f := newFixture(t, timeindex.RepresentationTimestamp)
	checker := lockorder.New()
	f.env.Locks = checker

	r := f.newRow(t, "n1")

	checker.Acquire(lockorder.Store)
	require.NoError(t, r.Set(f.name, value.String("ok")))
	checker.Release(lockorder.Store)
	assert.Empty(t, checker.Held())

	f.env.Values = storeReachingIndex{checker: checker}
	assert.PanicsWithError(t, "lock order violation: acquiring store lock while holding element lock", func() {
		_ = r.Set(f.age, value.Int32(1))
	})
	assert.Empty(t, checker.Held(), "row lock released on panic")
}

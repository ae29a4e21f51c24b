package timeindex

import (
	"sync"
	"testing"

	"github.com/hupe1980/attrstore/internal/errcat"
	"github.com/hupe1980/attrstore/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestRegistry_AcquireIsStable(t *testing.T) {
	r := NewRegistry(RepresentationTimestamp)

	a, err := r.Acquire(Timestamp(2000))
	require.NoError(t, err)
	b, err := r.Acquire(Timestamp(1990))
	require.NoError(t, err)
	again, err := r.Acquire(Timestamp(2000))
	require.NoError(t, err)

	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, a, again)
	assert.Equal(t, 2, r.RefCount(a))

	key, ok := r.Key(b)
	require.True(t, ok)
	assert.Equal(t, Timestamp(1990), key)

	idx, ok := r.Lookup(Timestamp(2000))
	assert.True(t, ok)
	assert.Equal(t, a, idx)
	_, ok = r.Lookup(Timestamp(1))
	assert.False(t, ok)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_RejectsBadKeys(t *testing.T) {
	r := NewRegistry(RepresentationTimestamp)

	_, err := r.Acquire(Span(1, 2))
	assert.ErrorIs(t, err, errcat.Argument)
	_, err = r.Acquire(Span(2, 1))
	assert.ErrorIs(t, err, errcat.Argument)
	_, _, err = r.AcquireElement(Span(1, 2), 1)
	assert.ErrorIs(t, err, errcat.Argument)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_RefCountingRecycles(t *testing.T) {
	r := NewRegistry(RepresentationTimestamp)

	idx, err := r.Acquire(Timestamp(5))
	require.NoError(t, err)
	_, err = r.Acquire(Timestamp(5))
	require.NoError(t, err)
	assert.Equal(t, 2, r.RefCount(idx))

	require.NoError(t, r.Release(idx))
	_, ok := r.Key(idx)
	assert.True(t, ok)

	require.NoError(t, r.Release(idx))
	_, ok = r.Key(idx)
	assert.False(t, ok)
	_, ok = r.Lookup(Timestamp(5))
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.RefCount(idx))

	recycled, err := r.Acquire(Timestamp(9))
	require.NoError(t, err)
	assert.Equal(t, idx, recycled)

	assert.ErrorIs(t, r.Release(42), errcat.NotFound)
	assert.ErrorIs(t, r.Release(-1), errcat.NotFound)
}

func TestRegistry_OverlappingIsChronological(t *testing.T) {
	r := NewRegistry(RepresentationInterval)

	keys := []Interval{Span(10, 20), Span(0, 100), Timestamp(15), Span(30, 40), Timestamp(-5)}
	idx := make(map[Interval]int)
	for _, k := range keys {
		i, err := r.Acquire(k)
		require.NoError(t, err)
		idx[k] = i
	}

	got := r.Overlapping(Span(12, 18))
	assert.Equal(t, []int{idx[Span(0, 100)], idx[Span(10, 20)], idx[Timestamp(15)]}, got)

	got = r.Overlapping(Timestamp(35))
	assert.Equal(t, []int{idx[Span(0, 100)], idx[Span(30, 40)]}, got)

	got = r.Overlapping(Infinite)
	assert.Len(t, got, len(keys))
	assert.Equal(t, idx[Timestamp(-5)], got[0])

	assert.Empty(t, r.Overlapping(Span(200, 300)))
	assert.Empty(t, r.Overlapping(Span(3, 1)))

	b, ok := r.Bounds()
	require.True(t, ok)
	assert.Equal(t, Span(-5, 100), b)
	assert.Equal(t, []Interval{Timestamp(-5), Span(0, 100), Span(10, 20), Timestamp(15), Span(30, 40)}, r.Snapshot())
}

func TestRegistry_OverlappingMatchesScan(t *testing.T) {
	rng := testutil.NewRNG(7)
	r := NewRegistry(RepresentationTimestamp)

	ts := rng.Timestamps(200, 0, 10_000)
	for _, x := range ts {
		_, err := r.Acquire(Timestamp(x))
		require.NoError(t, err)
	}

	for i := 0; i < 50; i++ {
		lo := float64(rng.Intn(10_000))
		q := Span(lo, lo+float64(rng.Intn(2_000)))

		want := []Interval{}
		for _, x := range ts {
			if Timestamp(x).Overlaps(q) {
				want = append(want, Timestamp(x))
			}
		}
		assert.Equal(t, want, r.Keys(r.Overlapping(q)))
	}
}

func TestRegistry_Elements(t *testing.T) {
	r := NewRegistry(RepresentationTimestamp)

	i1, added, err := r.AcquireElement(Timestamp(1), 7)
	require.NoError(t, err)
	assert.True(t, added)
	_, added, err = r.AcquireElement(Timestamp(1), 7)
	require.NoError(t, err)
	assert.False(t, added)
	_, _, err = r.AcquireElement(Timestamp(1), 3)
	require.NoError(t, err)
	_, _, err = r.AcquireElement(Timestamp(2), 9)
	require.NoError(t, err)
	assert.Equal(t, 2, r.RefCount(i1))

	assert.Equal(t, []uint32{3, 7, 9}, r.ElementsOverlapping(Span(0, 5)))
	assert.Equal(t, []uint32{9}, r.ElementsOverlapping(Timestamp(2)))
	assert.Empty(t, r.ElementsOverlapping(Timestamp(3)))

	require.NoError(t, r.ReleaseElement(i1, 7))
	require.NoError(t, r.ReleaseElement(i1, 7))
	assert.Equal(t, 1, r.RefCount(i1))
	require.NoError(t, r.ReleaseElement(i1, 3))
	_, ok := r.Key(i1)
	assert.False(t, ok)
	assert.Equal(t, []uint32{9}, r.ElementsOverlapping(Infinite))
}

func TestRegistry_ValueAndElementReferencesShareKey(t *testing.T) {
	r := NewRegistry(RepresentationTimestamp)

	idx, err := r.Acquire(Timestamp(4))
	require.NoError(t, err)
	same, _, err := r.AcquireElement(Timestamp(4), 1)
	require.NoError(t, err)
	assert.Equal(t, idx, same)

	require.NoError(t, r.Release(idx))
	_, ok := r.Key(idx)
	assert.True(t, ok, "element reference keeps the key alive")
	require.NoError(t, r.ReleaseElement(idx, 1))
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry(RepresentationTimestamp)

	var g errgroup.Group
	var mu sync.Mutex
	seen := make(map[float64]int)
	for range 8 {
		g.Go(func() error {
			for i := 0; i < 100; i++ {
				idx, err := r.Acquire(Timestamp(float64(i)))
				if err != nil {
					return err
				}
				mu.Lock()
				if prev, ok := seen[float64(i)]; ok && prev != idx {
					mu.Unlock()
					t.Errorf("timestamp %d resolved to %d and %d", i, prev, idx)
					return nil
				}
				seen[float64(i)] = idx
				mu.Unlock()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 100, r.Len())

	idx, ok := r.Lookup(Timestamp(42))
	require.True(t, ok)
	assert.Equal(t, 8, r.RefCount(idx))
}

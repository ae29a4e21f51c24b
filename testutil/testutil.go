package testutil

import (
	"math"
	"math/rand"
	"slices"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns, as a float64, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule).
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}

	return n - 1
}

// OpKind is the kind of a generated map operation.
type OpKind uint8

const (
	// OpPut inserts or overwrites a key.
	OpPut OpKind = iota
	// OpRemove removes a key.
	OpRemove
)

// Op is one generated operation against a time-indexed container.
type Op struct {
	Kind  OpKind
	Index int
	Value int64
}

// MapOps generates n put/remove operations over time-indices in [0, keySpace).
// Keys are Zipf-skewed so that overwrites and removals of present keys are
// frequent. removeRate is the probability of a remove.
func (r *RNG) MapOps(n, keySpace int, removeRate float64) []Op {
	r.mu.Lock()
	defer r.mu.Unlock()

	ops := make([]Op, n)
	for i := range ops {
		kind := OpPut
		if r.rand.Float64() < removeRate {
			kind = OpRemove
		}
		ops[i] = Op{
			Kind:  kind,
			Index: r.zipfLocked(keySpace, 1.1),
			Value: r.rand.Int63n(1<<20) - 1<<19,
		}
	}
	return ops
}

// Timestamps returns n distinct, ascending timestamps in [start, start+span).
func (r *RNG) Timestamps(n int, start, span float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[float64]struct{}, n)
	out := make([]float64, 0, n)
	for len(out) < n {
		t := start + math.Floor(r.rand.Float64()*span)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Reference is a naive model of a time-indexed map used as a test oracle.
type Reference struct {
	m map[int]int64
}

// NewReference creates an empty oracle.
func NewReference() *Reference {
	return &Reference{m: make(map[int]int64)}
}

// Apply applies op and returns what Put or Remove should have reported.
func (ref *Reference) Apply(op Op) bool {
	_, present := ref.m[op.Index]
	switch op.Kind {
	case OpPut:
		ref.m[op.Index] = op.Value
		return !present
	case OpRemove:
		delete(ref.m, op.Index)
		return present
	}
	return false
}

// Keys returns the oracle's keys in ascending order.
func (ref *Reference) Keys() []int {
	keys := make([]int, 0, len(ref.m))
	for k := range ref.m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Get returns the oracle's value at idx.
func (ref *Reference) Get(idx int) (int64, bool) {
	v, ok := ref.m[idx]
	return v, ok
}

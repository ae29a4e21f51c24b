package lockorder

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
	"sync"
)

// Level is the position of a lock in the global acquisition order. Locks
// must be taken in strictly increasing level.
type Level uint8

const (
	// Store is the store-wide reader/writer lock.
	Store Level = iota + 1
	// Element is a per-element row lock.
	Element
)

func (l Level) String() string {
	switch l {
	case Store:
		return "store"
	case Element:
		return "element"
	}
	return "level(" + strconv.Itoa(int(l)) + ")"
}

// ViolationError is the panic value raised on an out-of-order acquisition.
type ViolationError struct {
	Held     Level
	Acquired Level
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("lock order violation: acquiring %s lock while holding %s lock", e.Acquired, e.Held)
}

// Checker records, per goroutine, the levels currently held and panics
// when a lock is requested at a level not above the highest one held.
//
// It is a debugging aid. Goroutine identity comes from the runtime stack
// header, which is slow; enable it in tests and development only.
type Checker struct {
	mu   sync.Mutex
	held map[uint64][]Level
}

// New creates a checker.
func New() *Checker {
	return &Checker{held: make(map[uint64][]Level)}
}

// Acquire records that the calling goroutine is about to take a lock at
// level l. Call it before blocking on the lock.
func (c *Checker) Acquire(l Level) {
	gid := goid()

	c.mu.Lock()
	stack := c.held[gid]
	if n := len(stack); n > 0 && stack[n-1] >= l {
		held := stack[n-1]
		c.mu.Unlock()
		panic(&ViolationError{Held: held, Acquired: l})
	}
	c.held[gid] = append(stack, l)
	c.mu.Unlock()
}

// Release records that the calling goroutine released its lock at level l.
func (c *Checker) Release(l Level) {
	gid := goid()

	c.mu.Lock()
	defer c.mu.Unlock()

	stack := c.held[gid]
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == l {
			stack = append(stack[:i], stack[i+1:]...)
			break
		}
	}
	if len(stack) == 0 {
		delete(c.held, gid)
		return
	}
	c.held[gid] = stack
}

// Held returns the levels held by the calling goroutine, outermost first.
func (c *Checker) Held() []Level {
	gid := goid()

	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]Level(nil), c.held[gid]...)
}

var goroutinePrefix = []byte("goroutine ")

// goid parses the current goroutine id from the "goroutine N [...]" header
// of runtime.Stack.
func goid() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

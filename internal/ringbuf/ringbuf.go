// Package ringbuf is the tick inbox between a feed goroutine and the engine
// loop: a lock-free single-producer single-consumer ring of model.Tick.
package ringbuf

import (
	"sync/atomic"

	"chartengine/internal/model"
)

const cacheLine = 64

// Ring is a lock-free SPSC ring buffer of ticks.
// Capacity is a power of two so indices wrap with a mask.
type Ring struct {
	buf  []model.Tick
	mask uint64

	// Producer and consumer cursors live on separate cache lines.
	_pad0 [cacheLine]byte
	head  atomic.Uint64 // producer
	_pad1 [cacheLine]byte
	tail  atomic.Uint64 // consumer
	_pad2 [cacheLine]byte

	overflow atomic.Uint64
}

// New creates a ring. capacity is rounded up to the next power of two, minimum 2.
func New(capacity int) *Ring {
	n := nextPow2(capacity)
	if n < 2 {
		n = 2
	}
	return &Ring{
		buf:  make([]model.Tick, n),
		mask: uint64(n - 1),
	}
}

// Push enqueues a tick. It returns false, without writing, when the ring is
// full. Only one goroutine may call Push.
func (r *Ring) Push(t model.Tick) bool {
	head := r.head.Load()
	if head-r.tail.Load() >= uint64(len(r.buf)) {
		r.overflow.Add(1)
		return false
	}
	r.buf[head&r.mask] = t
	r.head.Store(head + 1)
	return true
}

// Pop dequeues the oldest tick. Only one goroutine may call Pop or Drain.
func (r *Ring) Pop() (model.Tick, bool) {
	tail := r.tail.Load()
	if tail >= r.head.Load() {
		return model.Tick{}, false
	}
	t := r.buf[tail&r.mask]
	r.tail.Store(tail + 1)
	return t, true
}

// Drain pops up to max ticks (all available if max <= 0) in FIFO order,
// passing each to fn. It returns the number consumed.
func (r *Ring) Drain(max int, fn func(model.Tick)) int {
	tail := r.tail.Load()
	avail := r.head.Load() - tail
	if max > 0 && avail > uint64(max) {
		avail = uint64(max)
	}
	for i := uint64(0); i < avail; i++ {
		fn(r.buf[(tail+i)&r.mask])
	}
	r.tail.Store(tail + avail)
	return int(avail)
}

// Len returns the number of queued ticks.
func (r *Ring) Len() int {
	return int(r.head.Load() - r.tail.Load())
}

// Cap returns the ring capacity.
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Overflow returns how many pushes were rejected because the ring was full.
func (r *Ring) Overflow() uint64 {
	return r.overflow.Load()
}

func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

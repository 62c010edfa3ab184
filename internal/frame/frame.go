// Package frame schedules work on the next paint, the way a browser's
// requestAnimationFrame does, and coalesces repeated requests.
package frame

import "time"

// Handle identifies a requested frame callback. The zero Handle is never issued.
type Handle uint64

// Callback runs on the next frame with the frame timestamp.
type Callback func(now time.Time)

// Scheduler requests and cancels next-frame callbacks.
type Scheduler interface {
	Request(cb Callback) Handle
	// Cancel is idempotent and a no-op for fired or unknown handles.
	Cancel(h Handle)
}

// Queue is a Scheduler driven by explicit Flush calls. Callbacks requested
// while a flush is running are deferred to the next flush. Not goroutine-safe:
// one loop owns it.
type Queue struct {
	next    Handle
	order   []Handle
	pending map[Handle]Callback
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{pending: make(map[Handle]Callback)}
}

// Request schedules cb for the next Flush.
func (q *Queue) Request(cb Callback) Handle {
	q.next++
	h := q.next
	q.pending[h] = cb
	q.order = append(q.order, h)
	return h
}

// Cancel drops h if it has not fired yet.
func (q *Queue) Cancel(h Handle) {
	delete(q.pending, h)
}

// Pending returns the number of callbacks waiting for the next flush.
func (q *Queue) Pending() int { return len(q.pending) }

// Flush runs every callback requested before this call, in request order,
// and returns how many ran.
func (q *Queue) Flush(now time.Time) int {
	batch := q.order
	q.order = nil
	ran := 0
	for _, h := range batch {
		cb, ok := q.pending[h]
		if !ok {
			continue // cancelled
		}
		delete(q.pending, h)
		cb(now)
		ran++
	}
	return ran
}

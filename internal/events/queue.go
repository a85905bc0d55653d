// Package events provides the bounded handoff queue that carries
// confirmed-letter events from the pipeline goroutine to the consumer's
// polling loop.
package events

import (
	"sync"

	"github.com/ayusman/fingerspell/internal/confirm"
)

// Queue is a bounded FIFO for confirm.Event with one producer (the
// pipeline) and one consumer (the application poll). Push never blocks:
// when the queue is full the incoming event is dropped, because the
// producer has to keep servicing frames in real time and confirmed
// letters are rare relative to the frame rate. Events are delivered in
// confirmation order.
//
// Close discards anything still queued: once the pipeline shuts down
// and its resources are released, no event may be delivered.
//
// A single short-held mutex guards the ring; push and pop hold it for
// microseconds against a frame interval of tens of milliseconds.
type Queue struct {
	mu      sync.Mutex
	ring    []confirm.Event
	head    int
	count   int
	dropped uint64
	closed  bool
}

// NewQueue creates a Queue with the given capacity. Capacities below 1
// are clamped to 1.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{
		ring: make([]confirm.Event, capacity),
	}
}

// Push enqueues an event and reports whether it was accepted. A full or
// closed queue drops the event and returns false; it never blocks.
func (q *Queue) Push(e confirm.Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || q.count == len(q.ring) {
		q.dropped++
		return false
	}

	q.ring[(q.head+q.count)%len(q.ring)] = e
	q.count++
	return true
}

// TryPop dequeues the oldest event if one is present. It never blocks;
// the second return value reports whether an event was dequeued. A
// closed queue never delivers.
func (q *Queue) TryPop() (confirm.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return confirm.Event{}, false
	}

	e := q.ring[q.head]
	q.ring[q.head] = confirm.Event{}
	q.head = (q.head + 1) % len(q.ring)
	q.count--
	return e, true
}

// Close marks the queue closed and discards any undelivered events,
// counting them as dropped; subsequent pushes are dropped too. It is
// idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.dropped += uint64(q.count)
	for i := range q.ring {
		q.ring[i] = confirm.Event{}
	}
	q.head = 0
	q.count = 0
}

// Len returns the number of events currently queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap returns the queue's fixed capacity.
func (q *Queue) Cap() int {
	return len(q.ring)
}

// Dropped returns the number of events dropped because the queue was
// full or closed.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Package queue provides the bounded hand-off between log producers and the
// single consumer task. Many goroutines may emit concurrently; exactly one
// goroutine owns the receive side.
package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"logvault/src/internal/core"
)

const DefaultCapacity = 1024

// Queue is a bounded multi-producer, single-consumer event queue.
// Emit applies backpressure when the buffer is full; events are never
// dropped silently. After Close, buffered events remain receivable until
// the queue is drained.
type Queue struct {
	ch   chan core.Event
	done chan struct{}

	// mu serializes emit registration against Close, and inflight lets the
	// consumer wait out emits that were admitted before Close so the final
	// drain cannot miss an event landing concurrently with shutdown.
	mu        sync.RWMutex
	closed    bool
	inflight  sync.WaitGroup
	closeOnce sync.Once

	totalEmitted atomic.Uint64
	totalFull    atomic.Uint64
}

// New creates a queue with the given capacity. Non-positive capacities fall
// back to DefaultCapacity.
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{
		ch:   make(chan core.Event, capacity),
		done: make(chan struct{}),
	}
}

// enter registers an in-flight emit, failing once the queue is closed.
func (q *Queue) enter() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}
	q.inflight.Add(1)
	return true
}

// Emit enqueues an event, suspending the caller while the buffer is full.
// It fails with core.ErrClosed once the queue is closed and with the
// context's error if ctx expires first. Emit performs no I/O.
func (q *Queue) Emit(ctx context.Context, ev core.Event) error {
	if !q.enter() {
		return core.ErrClosed
	}
	defer q.inflight.Done()

	// Fast path: space available.
	select {
	case q.ch <- ev:
		q.totalEmitted.Add(1)
		return nil
	default:
	}

	select {
	case q.ch <- ev:
		q.totalEmitted.Add(1)
		return nil
	case <-q.done:
		return core.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryEmit enqueues without blocking, failing with core.ErrFull when the
// buffer is at capacity.
func (q *Queue) TryEmit(ev core.Event) error {
	if !q.enter() {
		return core.ErrClosed
	}
	defer q.inflight.Done()

	select {
	case q.ch <- ev:
		q.totalEmitted.Add(1)
		return nil
	default:
		q.totalFull.Add(1)
		return core.ErrFull
	}
}

// Close marks the queue closed. Idempotent. Emits blocked on a full buffer
// fail with core.ErrClosed; buffered events stay available to Receive.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()
		close(q.done)
	})
}

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// Receive returns the next event. It blocks until an event arrives, the
// queue is closed and fully drained (ok false), or ctx expires (ok false).
// Only the consumer task may call Receive.
func (q *Queue) Receive(ctx context.Context) (core.Event, bool) {
	// Buffered events win over shutdown so a close still drains.
	select {
	case ev := <-q.ch:
		return ev, true
	default:
	}

	select {
	case ev := <-q.ch:
		return ev, true
	case <-q.done:
		// Emits admitted before Close may still be landing; wait them out
		// before declaring the buffer empty. They resolve promptly: the
		// closed done channel releases any emit still waiting for space.
		q.inflight.Wait()
		select {
		case ev := <-q.ch:
			return ev, true
		default:
			return core.Event{}, false
		}
	case <-ctx.Done():
		return core.Event{}, false
	}
}

// Len returns the number of buffered events.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Cap returns the buffer capacity.
func (q *Queue) Cap() int {
	return cap(q.ch)
}

// TotalEmitted returns the number of events accepted so far.
func (q *Queue) TotalEmitted() uint64 {
	return q.totalEmitted.Load()
}

// TotalFull returns the number of TryEmit calls rejected for lack of space.
func (q *Queue) TotalFull() uint64 {
	return q.totalFull.Load()
}

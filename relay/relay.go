// Package relay provides bounded FIFO queues connecting pipeline stages.
package relay

import "time"

// Queue is a bounded FIFO relay between a producer and a consumer. When the
// queue is at capacity, a push evicts the oldest element to admit the newest.
// The newest element is never dropped.
type Queue[T any] struct {
	ch chan T
}

// New returns a queue with fixed capacity. Capacity must be positive.
func New[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		panic("relay: capacity must be positive")
	}
	return &Queue[T]{ch: make(chan T, capacity)}
}

// Push inserts v at the tail. If the queue is full, the head element is
// evicted first. Push never blocks the producer.
func (q *Queue[T]) Push(v T) {
	for {
		select {
		case q.ch <- v:
			return
		default:
		}
		// full: evict the oldest and retry
		select {
		case <-q.ch:
		default:
		}
	}
}

// Pop blocks up to timeout for the next element. The second return value is
// false on expiry; consumers use it as a tick to re-check the lifecycle
// flag, not as an error.
func (q *Queue[T]) Pop(timeout time.Duration) (T, bool) {
	var zero T
	select {
	case v := <-q.ch:
		return v, true
	case <-time.After(timeout):
		return zero, false
	}
}

// TryPop returns the next element without blocking.
func (q *Queue[T]) TryPop() (T, bool) {
	var zero T
	select {
	case v := <-q.ch:
		return v, true
	default:
		return zero, false
	}
}

// Len returns the current number of queued elements.
func (q *Queue[T]) Len() int {
	return len(q.ch)
}

// Cap returns the queue capacity.
func (q *Queue[T]) Cap() int {
	return cap(q.ch)
}

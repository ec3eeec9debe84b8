package pool

import (
	"context"
	"sync"
)

// fifo is an unbounded queue with a blocking, context-aware pop.
type fifo[E any] struct {
	mu     sync.Mutex
	items  []E
	ready  chan struct{}
	closed bool
}

func newFIFO[E any]() *fifo[E] {
	return &fifo[E]{ready: make(chan struct{}, 1)}
}

// push appends e. It returns false once the queue is closed.
func (q *fifo[E]) push(e E) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, e)
	q.signal()
	return true
}

// signal must be called with mu held.
func (q *fifo[E]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// pop blocks until an item is available, the queue is closed, or ctx is done.
func (q *fifo[E]) pop(ctx context.Context) (E, bool) {
	var zero E
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			e := q.items[0]
			q.items[0] = zero
			q.items = q.items[1:]
			// wake the next waiter if more work is left
			if len(q.items) > 0 {
				q.signal()
			}
			q.mu.Unlock()
			return e, true
		}
		if q.closed {
			q.mu.Unlock()
			return zero, false
		}
		q.mu.Unlock()

		select {
		case <-q.ready:
		case <-ctx.Done():
			return zero, false
		}
	}
}

// close marks the queue closed and returns whatever was still queued.
func (q *fifo[E]) close() []E {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	rest := q.items
	q.items = nil
	close(q.ready)
	return rest
}

func (q *fifo[E]) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Package ringchan provides a bounded channel with overwrite-oldest semantics.
package ringchan

import (
	"sync"
	"sync/atomic"
)

// RingChannel wraps a buffered channel so producers never block: when the
// buffer is full the oldest element is discarded.
//
// Producers are serialized by an internal mutex; consumers read from C().
// Sends after Close are dropped instead of panicking, so a producer racing
// with shutdown is harmless.
//
//	rc := ringchan.New[int](3)
//	for i := 0; i < 10; i++ {
//	    rc.ForceSend(i)
//	}
//	rc.Close()
//	for v := range rc.C() {
//	    fmt.Println(v) // 7, 8, 9
//	}
type RingChannel[T any] struct {
	mu     sync.Mutex
	ch     chan T
	closed bool

	metrics Metrics
}

// Metrics are lock-free counters of channel activity
type Metrics struct {
	Written     int64
	Overwritten int64
	Rejected    int64 // sends after Close
}

// New creates a RingChannel with the given capacity.
func New[T any](capacity int) *RingChannel[T] {
	if capacity <= 0 {
		panic("ringchan: capacity must be > 0")
	}
	return &RingChannel[T]{ch: make(chan T, capacity)}
}

// C returns the receive side. It is closed by Close.
func (rc *RingChannel[T]) C() <-chan T {
	return rc.ch
}

// ForceSend inserts v, discarding the oldest element if the buffer is full.
// Returns true if an element was discarded. Never blocks.
func (rc *RingChannel[T]) ForceSend(v T) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.closed {
		atomic.AddInt64(&rc.metrics.Rejected, 1)
		return false
	}

	dropped := false
	select {
	case rc.ch <- v:
	default:
		select {
		case <-rc.ch:
			atomic.AddInt64(&rc.metrics.Overwritten, 1)
			dropped = true
		default:
		}
		// producers hold mu, so the slot freed above is still free
		rc.ch <- v
	}
	atomic.AddInt64(&rc.metrics.Written, 1)
	return dropped
}

func (rc *RingChannel[T]) Len() int { return len(rc.ch) }
func (rc *RingChannel[T]) Cap() int { return cap(rc.ch) }

// Close closes the receive side. Idempotent.
func (rc *RingChannel[T]) Close() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.closed {
		return
	}
	rc.closed = true
	close(rc.ch)
}

// GetMetrics returns a snapshot of the counters
func (rc *RingChannel[T]) GetMetrics() Metrics {
	return Metrics{
		Written:     atomic.LoadInt64(&rc.metrics.Written),
		Overwritten: atomic.LoadInt64(&rc.metrics.Overwritten),
		Rejected:    atomic.LoadInt64(&rc.metrics.Rejected),
	}
}

package equeue

import "time"

// Semaphore is the sleep/wake collaborator the dispatch loop blocks on
// between batches. Wait parks the calling goroutine until either Signal is
// called or timeout elapses (timeout <= 0 means wait forever), returning
// whether it woke because of a Signal (true) or a timeout (false). Signal
// is safe to call from any goroutine, including from inside a callback
// running on the dispatch goroutine itself, and coalesces: multiple Signal
// calls before a Wait observes them wake exactly one Wait, never more.
type Semaphore interface {
	Wait(timeout time.Duration) bool
	Signal()
}

// chanSemaphore is the portable default Semaphore: a capacity-1 channel
// used as a coalescing flag, the same non-blocking-send-dedup pattern the
// teacher's dispatch loop uses for its own wake channel (fastWakeupCh in
// loop.go) so that any number of Signal calls between two Wait calls still
// only produce a single wakeup.
type chanSemaphore struct {
	ch chan struct{}
}

// NewSemaphore returns the default, portable Semaphore implementation. It
// works on every platform Go supports; see NewEventfdSemaphore for a
// Linux-specific alternative backed by a real kernel wait primitive.
func NewSemaphore() Semaphore {
	return &chanSemaphore{ch: make(chan struct{}, 1)}
}

func (s *chanSemaphore) Signal() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

func (s *chanSemaphore) Wait(timeout time.Duration) bool {
	if timeout <= 0 {
		<-s.ch
		return true
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-s.ch:
		return true
	case <-t.C:
		return false
	}
}

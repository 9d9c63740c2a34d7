package equeue

import "fmt"

// Sentinel errors callers can test for with errors.Is. Every error a Queue
// method returns either is one of these directly or wraps one of these, so
// errors.Is always sees through to the underlying cause. Create's rejection
// of a negative buffer size and NewEventfdSemaphore's system-call error
// are plain errors that wrap none of these.
var (
	// ErrOutOfMemory is returned by Alloc when the slab cannot
	// satisfy a request: the free list has nothing big enough and the
	// bump region does not have the remaining capacity either. The queue
	// is left exactly as it was before the call — an out-of-memory Alloc
	// never corrupts allocator state.
	ErrOutOfMemory = fmt.Errorf("equeue: out of memory")

	// ErrNilEvent is returned by Post when given a nil *Event.
	ErrNilEvent = fmt.Errorf("equeue: nil event")

	// ErrEventPending is returned by Dealloc when called on an event that
	// is currently posted; callers must Cancel it first.
	ErrEventPending = fmt.Errorf("equeue: event is posted, cancel before dealloc")

	// ErrDestroyed is returned by Alloc, Post and Dispatch once Destroy has
	// completed. Post also returns it when handed an Event whose chunk has
	// already been freed or reused.
	ErrDestroyed = fmt.Errorf("equeue: queue destroyed")

	// ErrBusy is returned by Destroy when a Dispatch is currently running;
	// call Break and wait for it to return first.
	ErrBusy = fmt.Errorf("equeue: dispatch in progress")
)

// allocError wraps ErrOutOfMemory with the requested size, so a caller
// logging the error sees what failed to fit without needing a second
// round-trip through the Queue.
type allocError struct {
	requested int
}

func (e *allocError) Error() string {
	return fmt.Sprintf("equeue: alloc %d bytes: out of memory", e.requested)
}

func (e *allocError) Unwrap() error {
	return ErrOutOfMemory
}

func newAllocError(requested int) error {
	return &allocError{requested: requested}
}

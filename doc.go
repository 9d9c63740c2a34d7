// Package equeue provides an embeddable event queue: user callbacks are
// allocated from a single fixed backing buffer, optionally scheduled with a
// delay and/or period, and run in deadline order from a dispatch loop.
//
// # Architecture
//
// A [Queue] owns one contiguous buffer, carved up by an internal [Slab]
// allocator (best-fit free list, bump-region fallback, no splitting or
// coalescing — see [Slab]). [Queue.Alloc] returns an [Event] backed by a chunk of
// that buffer; [Queue.Post] hands the event to a time-ordered pending list
// keyed by deadline, wrap-safe across 32-bit tick overflow; [Queue.Dispatch]
// drains due events, re-arms periodic ones, and runs callbacks with no lock
// held.
//
// # Identifiers
//
// [Queue.Post] returns an [EventID] packing the chunk's index and a
// generation counter. [Queue.Cancel] is safe to call with any [EventID],
// including zero and identifiers referring to long-dead or reused chunks —
// it decodes the index, compares generations under the lock, and is a
// silent no-op on mismatch.
//
// # Concurrency
//
// Every [Queue] method that touches shared state takes the [Queue]'s
// [Mutex] exactly once (except [Queue.Dispatch], which cycles it once per
// batch). No callback is ever invoked while the mutex is held, so posting,
// cancelling, and allocating from inside a callback — or from another
// goroutine concurrently with [Queue.Dispatch] — is safe. One dispatcher
// per queue is the intended mode, but nothing stops two goroutines from
// calling [Queue.Dispatch] on the same [Queue] at once, or a callback from
// calling it on the queue currently running it: duplicate dispatchers race
// for work and each event still runs exactly once, since detaching it from
// the pending list is atomic under the mutex. The platform
// [Mutex] and [Semaphore] implementations are swappable via [WithMutex] and
// [WithSemaphore]: the defaults are a [sync.Mutex] and a channel-backed
// semaphore, but a single-threaded embedded deployment may supply a no-op
// mutex, and a hosted Linux deployment can opt into an eventfd-backed
// semaphore via [NewEventfdSemaphore].
//
// # Usage
//
//	q, err := equeue.Create(2048)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer q.Destroy()
//
//	var touched bool
//	if _, err := q.Call(func(any) { touched = true }, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := q.Dispatch(0); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Types
//
// [Queue.Alloc] reports capacity failures via [ErrOutOfMemory];
// [Queue.Post] reports a nil event via [ErrNilEvent]; [Queue.Cancel] never
// errors. All sentinel errors support [errors.Is] through [fmt.Errorf]'s
// %w wrapping.
package equeue

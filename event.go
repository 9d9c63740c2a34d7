package equeue

// eventHeader is the per-slot metadata for one allocated chunk. Headers
// live in a fixed-capacity slice owned by the Queue (see queue.go),
// allocated once and never grown or reallocated for the life of the queue —
// that stability is what lets the pending list's O(1) cancel hold a raw
// pointer to another header's next field (see queue.go's
// unlinkPendingLocked).
//
// Headers hold everything that cannot live inside the raw byte slab: Go
// closures and interface values have no safe representation in a []byte
// without breaking the garbage collector's ability to trace them, so the
// callback, destructor, and argument live here while only the opaque
// payload comes from the Slab.
type eventHeader struct {
	chunk Chunk
	used  bool // false: slot is free and on the queue's free chain

	// generation increments every time this slot is reused by Alloc,
	// invalidating any EventID issued for a previous occupant.
	generation uint32

	// pending list linkage. next is the 1-based index of the following
	// header in deadline order (0 means end of list). prev points at
	// whichever uint32 slot currently holds this header's index: either
	// another header's next field, or the Queue's pendingHead — giving
	// Cancel an O(1) unlink without walking the list to find a
	// predecessor.
	inPending bool
	next      uint32
	prev      *uint32

	target uint32 // absolute deadline, in ticks
	period int32  // <0: one-shot; >=0: re-arm period in ticks after firing

	fn   func(any)
	arg  any
	dtor func(*Event)

	// nextFree chains this slot into the queue's free-slot list when
	// !used, mirroring the same 1-based/zero-terminated convention as
	// next above.
	nextFree uint32
}

// Event is a handle to a chunk allocated from a Queue, returned by
// Queue.Alloc. Callers configure it with Delay, Period, and OnDestroy
// before handing it to Queue.Post. An Event must not be used from more
// than one goroutine concurrently without external synchronization beyond
// what Queue itself provides, since its setters mutate queue-owned state
// without taking the queue's mutex — they are meant to run on the
// allocating goroutine before Post is ever called.
type Event struct {
	q   *Queue
	idx uint32 // 1-based index into q.headers
	gen uint32 // generation snapshot at Alloc time
}

// Bytes returns the payload storage backing this event. Its length is at
// least the size requested from Queue.Alloc: a chunk reused from the free
// list keeps its original, possibly larger, size.
func (e *Event) Bytes() []byte {
	return e.q.slab.Bytes(e.q.headers[e.idx-1].chunk)
}

// Delay sets the one-shot deadline, d ticks from whenever Queue.Post is
// called. Delay and Period are mutually exclusive; calling Delay clears any
// period previously set with Period.
func (e *Event) Delay(d uint32) *Event {
	h := &e.q.headers[e.idx-1]
	h.period = -1
	h.target = d
	return e
}

// Period arranges for the event to re-fire every p ticks after it first
// runs, starting p ticks after Queue.Post. Passing p also implies an
// initial delay of p before the first firing: the first run happens one
// full period after posting, not immediately.
func (e *Event) Period(p uint32) *Event {
	h := &e.q.headers[e.idx-1]
	h.period = int32(p)
	h.target = p
	return e
}

// OnDestroy registers fn to run when the event is deallocated: on
// Queue.Dealloc of an unposted event, on Queue.Cancel of a pending event,
// after a one-shot event's callback returns in Queue.Dispatch, or on
// Queue.Destroy while events remain posted. A periodic event's firing does
// not invoke fn: the event is still live and still owns its destructor for
// a later cancellation or teardown.
//
// On Dealloc, Cancel and one-shot dispatch, the queue has already returned
// the event's chunk to the buffer by the time fn runs, so fn does not have
// access to the event's payload. fn must not call Dealloc on the event it
// is passed.
func (e *Event) OnDestroy(fn func(*Event)) *Event {
	e.q.headers[e.idx-1].dtor = fn
	return e
}

func (e *Event) setCallback(fn func(any), arg any) {
	h := &e.q.headers[e.idx-1]
	h.fn = fn
	h.arg = arg
}

func (e *Event) id() EventID {
	return packID(e.idx, e.q.headers[e.idx-1].generation)
}

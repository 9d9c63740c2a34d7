package equeue

import (
	"fmt"
	"sync/atomic"
)

// Queue is an embeddable event queue: callbacks ("events") are allocated
// from one fixed backing buffer, optionally scheduled with a delay or
// period, and run in deadline order by Dispatch. See the package doc
// comment for the overall model.
//
// A Queue's exported methods are safe for concurrent use. Every method that
// touches mutable queue state takes the configured Mutex exactly once,
// except Dispatch, which cycles it once per detached batch — no callback
// ever runs while the mutex is held, so Post, Cancel, and Alloc are safe to
// call from inside a running callback, including from the goroutine
// currently inside Dispatch.
type Queue struct {
	mu      Mutex
	sem     Semaphore
	ticker  Ticker
	logger  Logger
	metrics *Metrics

	slab    *Slab
	headers []eventHeader

	freeHead    uint32 // 1-based index of the first free header slot, 0 = none
	pendingHead uint32 // 1-based index of the first pending header, 0 = none

	depth      int
	breakCount int

	destroyed bool
	state     *fastState
	inFlight  atomic.Int32
}

// Create constructs a Queue backed by a buffer of bufSize bytes. The number
// of simultaneously live events defaults to a conservative estimate based
// on bufSize; override it with WithMaxEvents.
func Create(bufSize int, opts ...Option) (*Queue, error) {
	if bufSize < 0 {
		return nil, fmt.Errorf("equeue: negative buffer size %d", bufSize)
	}
	cfg, err := resolveOptions(bufSize, opts)
	if err != nil {
		return nil, err
	}

	q := &Queue{
		mu:      cfg.mutex,
		sem:     cfg.semaphore,
		ticker:  cfg.ticker,
		logger:  cfg.logger,
		metrics: cfg.metrics,
		slab:    NewSlab(make([]byte, bufSize)),
		headers: make([]eventHeader, cfg.maxEvents),
		state:   newFastState(),
	}
	for i := range q.headers {
		if i+1 < len(q.headers) {
			q.headers[i].nextFree = uint32(i + 2)
		}
	}
	if len(q.headers) > 0 {
		q.freeHead = 1
	}
	return q, nil
}

// Alloc carves a size-byte chunk out of the queue's buffer and returns an
// Event handle for it. The event is not scheduled until Post is called.
func (q *Queue) Alloc(size int) (*Event, error) {
	q.mu.Lock()
	if q.destroyed {
		q.mu.Unlock()
		return nil, ErrDestroyed
	}
	if q.freeHead == 0 {
		q.mu.Unlock()
		logAllocFailed(q.logger, size)
		return nil, newAllocError(size)
	}
	chunk, ok := q.slab.Alloc(size)
	if !ok {
		q.mu.Unlock()
		logAllocFailed(q.logger, size)
		return nil, newAllocError(size)
	}

	idx := q.freeHead
	h := &q.headers[idx-1]
	q.freeHead = h.nextFree

	h.used = true
	h.chunk = chunk
	h.generation++
	h.dtor = nil
	h.fn = nil
	h.arg = nil
	h.inPending = false
	h.next = 0
	h.prev = nil
	h.period = -1
	h.target = 0
	gen := h.generation
	q.mu.Unlock()

	return &Event{q: q, idx: idx, gen: gen}, nil
}

// Dealloc releases an allocated-but-not-posted Event back to the buffer
// without ever scheduling it, then runs its destructor (if any). It returns
// ErrEventPending if e is currently posted; cancel it first. Dealloc of an
// already-freed or stale Event is a silent no-op, matching Cancel's
// tolerance of stale identifiers.
func (q *Queue) Dealloc(e *Event) error {
	if e == nil {
		return nil
	}
	q.mu.Lock()
	h := &q.headers[e.idx-1]
	if !h.used || h.generation != e.gen {
		q.mu.Unlock()
		return nil
	}
	if h.inPending {
		q.mu.Unlock()
		return ErrEventPending
	}
	dtor := h.dtor
	q.freeHeaderLocked(e.idx)
	q.mu.Unlock()
	if dtor != nil {
		dtor(&Event{q: q, idx: e.idx, gen: e.gen})
	}
	return nil
}

// freeHeaderLocked returns idx's chunk to the slab and its header slot to
// the free chain. Caller must hold q.mu and must already know the slot is
// not currently in the pending list.
func (q *Queue) freeHeaderLocked(idx uint32) {
	h := &q.headers[idx-1]
	q.slab.Dealloc(h.chunk)
	h.used = false
	h.chunk = Chunk{}
	h.fn = nil
	h.arg = nil
	h.dtor = nil
	h.nextFree = q.freeHead
	q.freeHead = idx
}

// insertPendingLocked inserts header idx into the pending list in deadline
// order (wrap-safe, FIFO among equal deadlines), maintaining each node's
// back-pointer to whichever uint32 slot currently holds its index so a
// later Cancel can unlink it in O(1). Caller must hold q.mu.
func (q *Queue) insertPendingLocked(idx uint32) {
	h := &q.headers[idx-1]
	prevSlot := &q.pendingHead
	cur := *prevSlot
	for cur != 0 {
		ch := &q.headers[cur-1]
		if tickBefore(h.target, ch.target) {
			break
		}
		prevSlot = &ch.next
		cur = *prevSlot
	}
	h.next = cur
	h.prev = prevSlot
	*prevSlot = idx
	if cur != 0 {
		q.headers[cur-1].prev = &h.next
	}
	h.inPending = true
	q.depth++
}

// unlinkPendingLocked removes idx from the pending list in O(1) using its
// stored back-pointer. It is a no-op if idx is not currently pending.
// Caller must hold q.mu.
func (q *Queue) unlinkPendingLocked(idx uint32) {
	h := &q.headers[idx-1]
	if !h.inPending {
		return
	}
	*h.prev = h.next
	if h.next != 0 {
		q.headers[h.next-1].prev = h.prev
	}
	h.inPending = false
	h.prev = nil
	h.next = 0
	q.depth--
}

// Post schedules e to run fn(arg) according to whatever Delay or Period was
// configured on it (immediately, if neither was called), and returns a
// stable EventID that Cancel can later use to pull it back out — including
// after e's chunk has been reused by an unrelated allocation, since Cancel
// validates against the header's generation rather than trusting the index
// alone.
func (q *Queue) Post(e *Event, fn func(any), arg any) (EventID, error) {
	if e == nil {
		return 0, ErrNilEvent
	}
	q.mu.Lock()
	if q.destroyed {
		q.mu.Unlock()
		return 0, ErrDestroyed
	}
	h := &q.headers[e.idx-1]
	if !h.used || h.generation != e.gen {
		q.mu.Unlock()
		return 0, ErrDestroyed
	}

	h.fn = fn
	h.arg = arg
	now := q.ticker.Now()
	h.target = now + h.target
	q.insertPendingLocked(e.idx)
	id := packID(e.idx, h.generation)
	q.mu.Unlock()

	q.sem.Signal()
	logEventPosted(q.logger, id)
	return id, nil
}

// Cancel removes the event identified by id, if it is still pending,
// deallocating its chunk and running its destructor (if any). It is always
// safe to call, from any goroutine, at any time, including with a zero or
// stale EventID — those are silently ignored rather than treated as an
// error, matching the scheme's "survives reuse, stale ids silently
// ignored" guarantee.
func (q *Queue) Cancel(id EventID) {
	if id == 0 {
		return
	}
	idx := id.index()
	q.mu.Lock()
	if idx == 0 || int(idx) > len(q.headers) {
		q.mu.Unlock()
		return
	}
	h := &q.headers[idx-1]
	if !h.used || h.generation != id.generation() || !h.inPending {
		q.mu.Unlock()
		return
	}
	q.unlinkPendingLocked(idx)
	dtor := h.dtor
	gen := h.generation
	q.freeHeaderLocked(idx)
	q.mu.Unlock()

	logEventCancelled(q.logger, id)
	if dtor != nil {
		dtor(&Event{q: q, idx: idx, gen: gen})
	}
}

// Depth returns the number of events currently posted (pending dispatch or
// in flight).
func (q *Queue) Depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.depth + int(q.inFlight.Load())
}

// InFlight returns the number of events whose callback is currently
// executing.
func (q *Queue) InFlight() int {
	return int(q.inFlight.Load())
}

// Metrics returns the queue's metrics collector, or nil if it was created
// without WithMetrics(true).
func (q *Queue) Metrics() *Metrics {
	return q.metrics
}

// Destroy tears the queue down: every still-pending event's destructor (if
// any) is run, and no further Alloc/Post/Dispatch calls succeed. It
// returns ErrBusy if called while a Dispatch is in progress — call Break
// and wait for every concurrent Dispatch to return first.
func (q *Queue) Destroy() error {
	q.mu.Lock()
	if q.destroyed {
		q.mu.Unlock()
		return nil
	}
	if !q.state.tryDestroy() {
		q.mu.Unlock()
		return ErrBusy
	}
	q.destroyed = true

	var teardown []*Event
	idx := q.pendingHead
	for idx != 0 {
		h := &q.headers[idx-1]
		if h.dtor != nil {
			teardown = append(teardown, &Event{q: q, idx: idx, gen: h.generation})
		}
		idx = h.next
	}
	q.pendingHead = 0
	q.depth = 0
	q.mu.Unlock()

	for _, e := range teardown {
		h := &q.headers[e.idx-1]
		dtor := h.dtor
		h.dtor = nil
		if dtor != nil {
			dtor(e)
		}
	}
	return nil
}

package equeue

// Chunk identifies a region previously handed out by Slab.Alloc. It carries
// no pointer into the backing buffer, so it is safe to store inside
// GC-tracked metadata (see event.go) alongside the buffer itself without
// confusing the garbage collector about liveness of the byte slab.
type Chunk struct {
	offset int
	size   int
}

// Valid reports whether c refers to a non-empty region.
func (c Chunk) Valid() bool { return c.size > 0 }

// Size returns the number of bytes c spans.
func (c Chunk) Size() int { return c.size }

// Slab is a fixed-capacity byte-buffer allocator. It never grows and never
// returns memory to the Go runtime: every byte it hands out comes from the
// single buffer it was constructed with, and every byte it reclaims goes
// back onto a size-ordered free list for the next caller of a matching size.
//
// Allocation is best-fit over the free list (ascending size order, with a
// same-size secondary chain so repeated same-size churn is O(1) per size
// class), falling back to a bump-pointer region for sizes the free list
// cannot satisfy. There is no splitting of oversized free blocks and no
// coalescing of adjacent free blocks: both would require extra bookkeeping
// this allocator deliberately does not carry, trading a little
// fragmentation for a predictable, branch-light alloc/free path.
type Slab struct {
	buf []byte
	off int // bump cursor: buf[off:] is still untouched

	// free holds one group per distinct released size, ascending by size.
	// Each group's offsets is a stack of interchangeable blocks of that
	// size — the "same-size secondary chain" the allocator's policy calls
	// for, represented without any index-linked bookkeeping to invalidate.
	free []freeGroup
}

type freeGroup struct {
	size    int
	offsets []int
}

// NewSlab constructs a Slab over buf. The Slab takes ownership of buf: the
// caller must not read or write it directly afterward.
func NewSlab(buf []byte) *Slab {
	return &Slab{buf: buf}
}

// Cap returns the total size of the backing buffer.
func (s *Slab) Cap() int {
	return len(s.buf)
}

// Available returns the number of bytes reachable by a future Alloc: the
// untouched bump region plus everything on the free list. Because this
// allocator never splits or coalesces, a single Alloc may still fail even
// when Available is large, if the request is bigger than every individual
// free block and the remaining bump region combined cannot satisfy it.
func (s *Slab) Available() int {
	n := len(s.buf) - s.off
	for _, g := range s.free {
		n += g.size * len(g.offsets)
	}
	return n
}

// Alloc carves out a region of at least n bytes and returns a Chunk
// identifying it, or false if no such region is currently available. A
// fresh region from the bump cursor is exactly n bytes; a region reused
// from the free list may be larger than n, since this allocator never
// splits a free block to fit a smaller request.
func (s *Slab) Alloc(n int) (Chunk, bool) {
	if n < 0 {
		return Chunk{}, false
	}
	if n == 0 {
		return Chunk{offset: s.off, size: 0}, true
	}
	if i := s.bestFit(n); i >= 0 {
		g := &s.free[i]
		last := len(g.offsets) - 1
		offset := g.offsets[last]
		size := g.size
		g.offsets = g.offsets[:last]
		if len(g.offsets) == 0 {
			s.free = append(s.free[:i], s.free[i+1:]...)
		}
		// size, not n: reusing a larger free block without splitting means
		// the caller gets the whole block, exactly like returning to a
		// size-class pool. Dealloc later returns that same size back to the
		// free list, so no capacity is ever lost to a mismatched reinsert.
		return Chunk{offset: offset, size: size}, true
	}
	if s.off+n > len(s.buf) {
		return Chunk{}, false
	}
	c := Chunk{offset: s.off, size: n}
	s.off += n
	return c, true
}

// Dealloc returns a chunk previously produced by Alloc on this Slab to the
// free list, making it available to a future Alloc of the same or smaller
// size. Dealloc of a zero Chunk is a no-op.
func (s *Slab) Dealloc(c Chunk) {
	if !c.Valid() {
		return
	}
	s.insertFree(c.offset, c.size)
}

// Bytes returns the live view of c's bytes. The returned slice is only
// valid until the next Dealloc of c; reusing it afterward aliases whatever
// the allocator next hands that region to.
func (s *Slab) Bytes(c Chunk) []byte {
	if !c.Valid() {
		return nil
	}
	return s.buf[c.offset : c.offset+c.size]
}

// bestFit returns the index into s.free of the smallest group whose size is
// >= n, or -1 if none exists. s.free is kept sorted ascending by size, so
// this is a linear scan to the first group big enough — the classic
// best-fit-over-an-ordered-free-list shape, without a balanced tree.
func (s *Slab) bestFit(n int) int {
	for i := range s.free {
		if s.free[i].size >= n {
			return i
		}
	}
	return -1
}

// insertFree adds a released block to the free list, keeping ascending size
// order. A block matching an existing size is pushed onto that size's
// secondary chain instead of creating a new ordered slot.
func (s *Slab) insertFree(offset, size int) {
	for i := range s.free {
		switch {
		case s.free[i].size == size:
			s.free[i].offsets = append(s.free[i].offsets, offset)
			return
		case s.free[i].size > size:
			s.free = append(s.free, freeGroup{})
			copy(s.free[i+1:], s.free[i:])
			s.free[i] = freeGroup{size: size, offsets: []int{offset}}
			return
		}
	}
	s.free = append(s.free, freeGroup{size: size, offsets: []int{offset}})
}

package equeue

// generationBits is the width of the generation counter packed into the
// low bits of an EventID, leaving the remaining high bits for the chunk
// index. 16 bits of generation is enough headroom that a chunk would need
// to be allocated and freed 65536 times before an old EventID could
// theoretically alias a new occupant of the same slot — for an embedded
// buffer sized for tens or hundreds of live events, that churn rate would
// take the queue's entire practical lifetime to exhaust.
const generationBits = 16

const generationMask = 1<<generationBits - 1

// EventID is an opaque, stable handle returned by Queue.Post. It survives
// the underlying chunk being freed and reallocated: Queue.Cancel decodes it
// back into a chunk index and a generation, and is a silent no-op if the
// generation no longer matches what is currently occupying that slot.
//
// The zero EventID is never issued by Post and is always rejected by
// Cancel.
type EventID uint32

// packID builds the EventID for chunk index idx (1-based; 0 is reserved to
// keep the zero EventID invalid) and generation gen.
func packID(idx uint32, gen uint32) EventID {
	return EventID(idx<<generationBits | (gen & generationMask))
}

// index returns the 1-based chunk index encoded in id.
func (id EventID) index() uint32 {
	return uint32(id) >> generationBits
}

// generation returns the generation counter encoded in id.
func (id EventID) generation() uint32 {
	return uint32(id) & generationMask
}

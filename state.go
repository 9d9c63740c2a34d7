package equeue

import "sync/atomic"

// runState distinguishes only what Destroy needs to know: whether the
// queue has already been torn down. There is no "dispatching" state here —
// the data structure permits multiple concurrent dispatchers racing for
// work via the mutex-guarded detach (see Dispatch), so nothing in this
// package serializes Dispatch calls against each other.
type runState uint32

const (
	stateIdle runState = iota
	stateDestroyed
)

func (s runState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// fastState is a cache-line-padded atomic holder combining the destroyed
// flag with a count of dispatchers currently executing a Dispatch loop, so
// Destroy can refuse (ErrBusy) while at least one is active without
// serializing Dispatch calls against each other. Padding avoids false
// sharing with adjacent Queue fields.
type fastState struct { // betteralign:ignore
	_           [64]byte
	v           atomic.Uint32
	dispatchers atomic.Int32
	_           [56]byte
}

func newFastState() *fastState {
	return &fastState{}
}

func (s *fastState) load() runState {
	return runState(s.v.Load())
}

// enterDispatch registers one active dispatcher, refusing (false) if the
// queue has already been destroyed.
func (s *fastState) enterDispatch() bool {
	if s.load() == stateDestroyed {
		return false
	}
	s.dispatchers.Add(1)
	if s.load() == stateDestroyed {
		s.dispatchers.Add(-1)
		return false
	}
	return true
}

// exitDispatch unregisters one active dispatcher. Must be paired with a
// successful enterDispatch.
func (s *fastState) exitDispatch() {
	s.dispatchers.Add(-1)
}

// tryDestroy transitions to stateDestroyed, refusing (false) while any
// dispatcher is active.
func (s *fastState) tryDestroy() bool {
	if s.dispatchers.Load() > 0 {
		return false
	}
	if !s.v.CompareAndSwap(uint32(stateIdle), uint32(stateDestroyed)) {
		return false
	}
	if s.dispatchers.Load() > 0 {
		// a dispatcher registered between our check and the CAS above;
		// back out and report busy rather than tear down underneath it.
		s.v.Store(uint32(stateIdle))
		return false
	}
	return true
}

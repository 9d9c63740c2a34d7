package equeue

import "time"

// Ticker supplies the monotonic millisecond clock the dispatch queue orders
// events by. Now must never go backward and must wrap silently at the
// uint32 boundary rather than panic or saturate — the queue's deadline
// comparisons are wrap-safe (see tickBefore) specifically so a Ticker can
// be this simple.
type Ticker interface {
	Now() uint32
}

// monotonicTicker is the default Ticker: ticks are milliseconds elapsed
// since the ticker was constructed, taken from time.Now's monotonic
// reading. Anchors a wall-clock reading once and measures elapsed time
// relative to it rather than re-deriving an absolute tick from the OS clock
// on every call.
type monotonicTicker struct {
	anchor time.Time
}

// NewTicker returns the default millisecond Ticker, anchored at the moment
// it is constructed.
func NewTicker() Ticker {
	return &monotonicTicker{anchor: time.Now()}
}

func (t *monotonicTicker) Now() uint32 {
	return uint32(time.Since(t.anchor).Milliseconds())
}

// tickBefore reports whether a denotes an earlier tick than b, correctly
// across a single wraparound of the uint32 tick counter. Converting the
// difference to a signed int32 and checking its sign is standard wrap-safe
// sequence-number comparison: it stays correct as long as any two ticks
// being compared are never more than 2^31 ticks (about 24.8 days at 1ms
// resolution) apart, which a bounded dispatch queue never approaches.
func tickBefore(a, b uint32) bool {
	return int32(a-b) < 0
}

// tickAfterOrEqual is the complement of tickBefore, used to test whether a
// deadline has arrived: target is due once now is at or past it.
func tickAfterOrEqual(now, target uint32) bool {
	return !tickBefore(now, target)
}

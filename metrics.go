package equeue

import (
	"sync"
	"time"
)

// Metrics tracks optional runtime statistics for a Queue: dispatch callback
// latency percentiles and current queue occupancy. Attach via WithMetrics;
// a Queue created without it pays only a nil check per dispatched
// callback and per batch — Queue never touches a nil *Metrics.
//
// Tracks the one latency signal a dispatch loop of plain callbacks actually
// produces, plus queue depth gauges mirroring the occupancy assertions a
// fixed-buffer event queue's own test suite would make throughout.
type Metrics struct {
	mu     sync.Mutex
	digest *latencyDigest

	depth    int
	inFlight int
}

func newMetrics() *Metrics {
	return &Metrics{}
}

// recordLatency feeds one dispatch callback's execution time into the
// percentile estimator. Called by Dispatch after every callback, outside
// the queue's own mutex.
func (m *Metrics) recordLatency(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.digest == nil {
		m.digest = newLatencyDigest(0.50, 0.90, 0.95, 0.99)
	}
	m.digest.Update(float64(d))
}

// Reset clears every recorded latency sample so the next DispatchLatency
// reflects a fresh window. Occupancy gauges are untouched: they describe
// current state, not an accumulating window.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.digest != nil {
		m.digest.Reset()
	}
}

func (m *Metrics) setOccupancy(depth, inFlight int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.depth = depth
	m.inFlight = inFlight
}

// DispatchLatency reports P50/P90/P95/P99 observed dispatch callback
// durations. Each is zero until enough samples exist for that percentile's
// estimator to have been updated at least once.
type DispatchLatency struct {
	P50, P90, P95, P99, Max time.Duration
	Sum, Mean               time.Duration
	Count                   int
}

// DispatchLatency returns a snapshot of callback execution latency
// observed so far.
func (m *Metrics) DispatchLatency() DispatchLatency {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.digest == nil {
		return DispatchLatency{}
	}
	return DispatchLatency{
		P50:   time.Duration(m.digest.Quantile(0)),
		P90:   time.Duration(m.digest.Quantile(1)),
		P95:   time.Duration(m.digest.Quantile(2)),
		P99:   time.Duration(m.digest.Quantile(3)),
		Max:   time.Duration(m.digest.Max()),
		Sum:   time.Duration(m.digest.Sum()),
		Mean:  time.Duration(m.digest.Mean()),
		Count: m.digest.Count(),
	}
}

// Occupancy returns the most recent queue depth (events currently posted,
// pending or in flight) and in-flight count (events whose callback is
// currently executing).
func (m *Metrics) Occupancy() (depth, inFlight int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.depth, m.inFlight
}

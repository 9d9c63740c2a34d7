package equeue

import (
	"math"
	"sort"
)

// quantileMarkers implements Jain and Chlamtac's P-Square algorithm for
// tracking a single quantile of a stream without retaining any of the
// observations: every Update is O(1), and Quantile is a lookup rather than
// a sort.
//
//	Jain, R. and Chlamtac, I. (1985). "The P^2 Algorithm for Dynamic
//	Calculation of Quantiles and Histograms Without Storing Observations".
//	Communications of the ACM, 28(10), pp. 1076-1085.
//
// Not safe for concurrent use; callers serialize access (Metrics does so
// with its own mutex).
type quantileMarkers struct {
	target float64 // quantile in [0, 1]

	height   [5]float64 // marker heights, i.e. the q_i of the paper
	position [5]int     // marker positions, the n_i of the paper
	desired  [5]float64 // desired (float) marker positions, the n'_i
	step     [5]float64 // per-observation increment to desired positions

	ready bool
	seen  int
	warm  [5]float64 // buffers the first 5 observations until ready
}

func newQuantileMarkers(target float64) *quantileMarkers {
	target = math.Min(1, math.Max(0, target))
	return &quantileMarkers{
		target: target,
		step:   [5]float64{0, target / 2, target, (1 + target) / 2, 1},
	}
}

// Update folds one more observation into the estimator.
func (qm *quantileMarkers) Update(x float64) {
	qm.seen++
	if qm.seen <= 5 {
		qm.warm[qm.seen-1] = x
		if qm.seen == 5 {
			qm.settle()
		}
		return
	}

	cell := qm.locate(x)
	for i := cell + 1; i < 5; i++ {
		qm.position[i]++
	}
	for i := range qm.desired {
		qm.desired[i] += qm.step[i]
	}
	qm.adjust()
}

// locate finds which of the four cells x falls in, widening the outer
// markers if x is a new extreme, and reports the cell below x's marker.
func (qm *quantileMarkers) locate(x float64) int {
	switch {
	case x < qm.height[0]:
		qm.height[0] = x
		return 0
	case x >= qm.height[4]:
		qm.height[4] = x
		return 3
	default:
		for i := 0; i < 4; i++ {
			if qm.height[i] <= x && x < qm.height[i+1] {
				return i
			}
		}
		return 3
	}
}

// adjust nudges the three interior markers toward their desired positions,
// preferring the parabolic estimate and falling back to linear
// interpolation whenever the parabola would overshoot its neighbors.
func (qm *quantileMarkers) adjust() {
	for i := 1; i < 4; i++ {
		d := qm.desired[i] - float64(qm.position[i])
		switch {
		case d >= 1 && qm.position[i+1]-qm.position[i] > 1:
			qm.move(i, 1)
		case d <= -1 && qm.position[i-1]-qm.position[i] < -1:
			qm.move(i, -1)
		}
	}
}

func (qm *quantileMarkers) move(i, sign int) {
	p := qm.parabolic(i, sign)
	if qm.height[i-1] < p && p < qm.height[i+1] {
		qm.height[i] = p
	} else {
		qm.height[i] = qm.linear(i, sign)
	}
	qm.position[i] += sign
}

func (qm *quantileMarkers) settle() {
	sorted := qm.warm
	sort.Float64s(sorted[:])
	for i, v := range sorted {
		qm.height[i] = v
		qm.position[i] = i
	}
	qm.desired = [5]float64{0, 2 * qm.target, 4 * qm.target, 2 + 2*qm.target, 4}
	qm.ready = true
}

func (qm *quantileMarkers) parabolic(i, sign int) float64 {
	d := float64(sign)
	lo, mid, hi := float64(qm.position[i-1]), float64(qm.position[i]), float64(qm.position[i+1])
	left := (mid - lo + d) * (qm.height[i+1] - qm.height[i]) / (hi - mid)
	right := (hi - mid - d) * (qm.height[i] - qm.height[i-1]) / (mid - lo)
	return qm.height[i] + d/(hi-lo)*(left+right)
}

func (qm *quantileMarkers) linear(i, sign int) float64 {
	if sign > 0 {
		return qm.height[i] + (qm.height[i+1]-qm.height[i])/float64(qm.position[i+1]-qm.position[i])
	}
	return qm.height[i] - (qm.height[i]-qm.height[i-1])/float64(qm.position[i]-qm.position[i-1])
}

// Quantile reports the current estimate, falling back to an exact sort of
// the warm-up buffer while fewer than 5 observations have arrived.
func (qm *quantileMarkers) Quantile() float64 {
	if qm.seen == 0 {
		return 0
	}
	if qm.seen < 5 {
		sorted := append([]float64(nil), qm.warm[:qm.seen]...)
		sort.Float64s(sorted)
		idx := int(float64(qm.seen-1) * qm.target)
		if idx >= qm.seen {
			idx = qm.seen - 1
		}
		return sorted[idx]
	}
	return qm.height[2]
}

func (qm *quantileMarkers) Count() int {
	return qm.seen
}

func (qm *quantileMarkers) Max() float64 {
	if qm.seen == 0 {
		return 0
	}
	if qm.seen < 5 {
		m := qm.warm[0]
		for _, v := range qm.warm[1:qm.seen] {
			if v > m {
				m = v
			}
		}
		return m
	}
	return qm.height[4]
}

// latencyDigest tracks several quantiles of the same stream side by side,
// plus the running count/sum/max a single pass can produce for free —
// everything Metrics.DispatchLatency reports.
//
// Not safe for concurrent use; Metrics guards it with its own mutex.
type latencyDigest struct {
	markers []*quantileMarkers
	count   int
	sum     float64
	max     float64
}

func newLatencyDigest(targets ...float64) *latencyDigest {
	d := &latencyDigest{
		markers: make([]*quantileMarkers, len(targets)),
		max:     -math.MaxFloat64,
	}
	for i, target := range targets {
		d.markers[i] = newQuantileMarkers(target)
	}
	return d
}

func (d *latencyDigest) Update(x float64) {
	d.count++
	d.sum += x
	if x > d.max {
		d.max = x
	}
	for _, m := range d.markers {
		m.Update(x)
	}
}

// Quantile returns the estimate for the i-th target passed to
// newLatencyDigest, or 0 if i is out of range.
func (d *latencyDigest) Quantile(i int) float64 {
	if i < 0 || i >= len(d.markers) {
		return 0
	}
	return d.markers[i].Quantile()
}

func (d *latencyDigest) Count() int {
	return d.count
}

// Sum returns the running total of every observation folded in so far.
func (d *latencyDigest) Sum() float64 {
	return d.sum
}

func (d *latencyDigest) Max() float64 {
	if d.count == 0 {
		return 0
	}
	return d.max
}

func (d *latencyDigest) Mean() float64 {
	if d.count == 0 {
		return 0
	}
	return d.sum / float64(d.count)
}

// Reset clears the digest back to its zero-observation state, letting a
// caller like Metrics.Reset start a fresh reporting window without
// reallocating the marker slice.
func (d *latencyDigest) Reset() {
	d.sum = 0
	d.count = 0
	d.max = -math.MaxFloat64
	for _, m := range d.markers {
		*m = *newQuantileMarkers(m.target)
	}
}

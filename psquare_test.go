package equeue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatencyDigestConvergesOnUniformData(t *testing.T) {
	d := newLatencyDigest(0.50, 0.90, 0.99)
	for i := 1; i <= 1000; i++ {
		d.Update(float64(i))
	}
	assert.InDelta(t, 500, d.Quantile(0), 50)
	assert.InDelta(t, 900, d.Quantile(1), 50)
	assert.InDelta(t, 990, d.Quantile(2), 20)
	assert.Equal(t, 1000, d.Count())
	assert.Equal(t, 1000.0, d.Max())
	assert.Equal(t, 500500.0, d.Sum())
	assert.InDelta(t, 500.5, d.Mean(), 0.01)
}

func TestLatencyDigestQuantileOutOfRangeReturnsZero(t *testing.T) {
	d := newLatencyDigest(0.50)
	d.Update(1)
	assert.Equal(t, 0.0, d.Quantile(-1))
	assert.Equal(t, 0.0, d.Quantile(1))
}

func TestLatencyDigestResetClearsState(t *testing.T) {
	d := newLatencyDigest(0.50)
	for i := 0; i < 50; i++ {
		d.Update(float64(i))
	}
	d.Reset()
	assert.Equal(t, 0, d.Count())
	assert.Equal(t, 0.0, d.Sum())
	assert.Equal(t, 0.0, d.Max())
	assert.Equal(t, 0.0, d.Mean())
}

func TestQuantileMarkersBeforeWarmupUsesExactSort(t *testing.T) {
	qm := newQuantileMarkers(0.5)
	for _, v := range []float64{4, 2, 3, 1} {
		qm.Update(v)
	}
	assert.Equal(t, 4, qm.Count())
	assert.Equal(t, 4.0, qm.Max())
	assert.Equal(t, 2.0, qm.Quantile())
}

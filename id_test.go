package equeue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackIDRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		idx, gen uint32
	}{
		{1, 0},
		{1, 1},
		{65535, 1},
		{1, generationMask},
		{65535, generationMask},
	} {
		id := packID(tc.idx, tc.gen)
		assert.Equal(t, tc.idx, id.index())
		assert.Equal(t, tc.gen, id.generation())
	}
}

func TestPackIDGenerationWraps(t *testing.T) {
	id := packID(1, generationMask+5)
	assert.Equal(t, uint32(4), id.generation())
}

func TestZeroEventIDIsNeverProducedByValidIndex(t *testing.T) {
	// index 0 is reserved; a real allocation always uses a 1-based index,
	// so packID(0, 0) producing the zero value is exactly the sentinel
	// Cancel relies on to reject a never-issued id.
	assert.Equal(t, EventID(0), packID(0, 0))
	assert.NotEqual(t, EventID(0), packID(1, 0))
}

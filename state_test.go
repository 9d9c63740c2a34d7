package equeue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFastStateEnterExitDispatch(t *testing.T) {
	s := newFastState()
	assert.Equal(t, stateIdle, s.load())

	assert.True(t, s.enterDispatch())
	assert.True(t, s.enterDispatch(), "multiple concurrent dispatchers must be allowed")
	s.exitDispatch()
	s.exitDispatch()
	assert.Equal(t, stateIdle, s.load())
}

func TestFastStateTryDestroyRefusesWhileDispatcherActive(t *testing.T) {
	s := newFastState()
	require := assert.New(t)

	require.True(s.enterDispatch())
	require.False(s.tryDestroy(), "must refuse to destroy while a dispatcher is active")
	s.exitDispatch()

	require.True(s.tryDestroy())
	assert.Equal(t, stateDestroyed, s.load())
}

func TestFastStateEnterDispatchRefusedAfterDestroy(t *testing.T) {
	s := newFastState()
	assert.True(t, s.tryDestroy())
	assert.False(t, s.enterDispatch())
}

func TestRunStateString(t *testing.T) {
	assert.Equal(t, "idle", stateIdle.String())
	assert.Equal(t, "destroyed", stateDestroyed.String())
	assert.Equal(t, "unknown", runState(99).String())
}

package equeue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChanSemaphoreSignalThenWaitReturnsTrue(t *testing.T) {
	s := NewSemaphore()
	s.Signal()
	assert.True(t, s.Wait(time.Second))
}

func TestChanSemaphoreWaitTimesOutWithoutSignal(t *testing.T) {
	s := NewSemaphore()
	start := time.Now()
	woke := s.Wait(20 * time.Millisecond)
	assert.False(t, woke)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestChanSemaphoreSignalCoalesces(t *testing.T) {
	s := NewSemaphore()
	s.Signal()
	s.Signal()
	s.Signal()
	assert.True(t, s.Wait(time.Second))
	// only one pending wakeup should have been buffered.
	assert.False(t, s.Wait(10*time.Millisecond))
}

func TestChanSemaphoreConcurrentSignalWakesWaiter(t *testing.T) {
	s := NewSemaphore()
	done := make(chan bool, 1)
	go func() { done <- s.Wait(time.Second) }()
	time.Sleep(10 * time.Millisecond)
	s.Signal()
	assert.True(t, <-done)
}

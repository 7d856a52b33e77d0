package sched

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualAdvance(t *testing.T) {
	m := NewManual()
	count := 0
	m.Start(func() { count++ })
	m.Advance(5)
	assert.Equal(t, 5, count)

	m.Stop()
	m.Advance(3)
	assert.Equal(t, 5, count)
}

func TestManualStopIdempotent(t *testing.T) {
	m := NewManual()
	m.Stop()
	m.Stop()
	assert.False(t, m.Running())

	m.Start(func() {})
	assert.True(t, m.Running())
	m.Stop()
	m.Stop()
	assert.False(t, m.Running())
}

func TestTickerRunsAndStops(t *testing.T) {
	ticker := NewTicker(200)
	var count atomic.Int64
	ticker.Start(func() { count.Add(1) })

	assert.Eventually(t, func() bool {
		return count.Load() > 0
	}, time.Second, time.Millisecond)

	ticker.Stop()
	settled := count.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, count.Load())

	// Stop again is safe.
	ticker.Stop()
}

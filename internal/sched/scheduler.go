// Package sched abstracts the per-frame scheduling primitive that drives
// every tick of the pipeline, so tests can run ticks synchronously
// without wall-clock timing.
package sched

import (
	"sync"
	"time"
)

// Scheduler repeatedly invokes a tick callback. Implementations never run
// two ticks concurrently; all per-tick work completes before the next
// tick is requested.
type Scheduler interface {
	// Start begins invoking tick. Calling Start while running replaces
	// nothing and is a no-op.
	Start(tick func())
	// Stop halts the loop. Stop is immediate and idempotent.
	Stop()
}

// Ticker is a wall-clock Scheduler firing at a fixed rate.
type Ticker struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewTicker creates a scheduler firing fps times per second.
func NewTicker(fps float64) *Ticker {
	if fps <= 0 {
		fps = 30
	}
	return &Ticker{interval: time.Duration(float64(time.Second) / fps)}
}

// Start begins the tick loop in its own goroutine.
func (t *Ticker) Start(tick func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}
	t.stop = make(chan struct{})
	t.done = make(chan struct{})

	go func(stop, done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				tick()
			}
		}
	}(t.stop, t.done)
}

// Stop halts the loop and waits for the in-flight tick to finish.
func (t *Ticker) Stop() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop = nil
	t.done = nil
	t.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Manual is a test Scheduler whose ticks are driven by explicit Advance
// calls.
type Manual struct {
	tick    func()
	running bool
}

// NewManual returns an idle manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// Start records the callback without invoking it.
func (m *Manual) Start(tick func()) {
	if m.running {
		return
	}
	m.tick = tick
	m.running = true
}

// Stop halts the scheduler; further Advance calls do nothing.
func (m *Manual) Stop() {
	m.running = false
	m.tick = nil
}

// Running reports whether Start has been called without a matching Stop.
func (m *Manual) Running() bool {
	return m.running
}

// Advance synchronously invokes the callback n times.
func (m *Manual) Advance(n int) {
	for i := 0; i < n && m.running; i++ {
		m.tick()
	}
}

package clock

import (
	"sync/atomic"
	"time"
)

// ManualClock is a Clock that only moves when told to. It may be moved
// backwards with Set to reproduce clock anomalies.
//
// ManualClock is safe for concurrent use, so one goroutine can advance it
// while another waits on it.
type ManualClock struct {
	now atomic.Int64
}

// NewManualClock creates a ManualClock reading start.
func NewManualClock(start MonoTime) *ManualClock {
	c := &ManualClock{}
	c.now.Store(int64(start))
	return c
}

// Now returns the current reading.
func (c *ManualClock) Now() MonoTime {
	return MonoTime(c.now.Load())
}

// Since returns the duration elapsed since t.
func (c *ManualClock) Since(t MonoTime) (time.Duration, error) {
	return c.Now().DurationSince(t)
}

// Advance moves the clock forward by d and returns the new reading.
// A negative d moves it backwards.
func (c *ManualClock) Advance(d time.Duration) MonoTime {
	return MonoTime(c.now.Add(int64(d)))
}

// Set jumps the clock to t.
func (c *ManualClock) Set(t MonoTime) {
	c.now.Store(int64(t))
}

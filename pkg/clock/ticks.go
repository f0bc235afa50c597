package clock

import (
	"math/bits"
	"time"

	"github.com/BYTE-6D65/tickwait/pkg/timestamp"
)

// Tick is a reading of a free-running counter, such as a microcontroller
// system timer. Durations in this domain are tick counts; converting them
// to time needs the counter frequency.
type Tick uint64

// Ticks is a number of counter ticks.
type Ticks uint64

// DurationSinceEpoch returns the raw counter value.
func (t Tick) DurationSinceEpoch() Ticks {
	return Ticks(t)
}

// DurationSince returns t - other. Unsigned subtraction would wrap around
// when other is later than t, so that case fails instead.
func (t Tick) DurationSince(other Tick) (Ticks, error) {
	if other > t {
		return 0, timestamp.NewNegativeDurationError(t, other)
	}
	return Ticks(t - other), nil
}

// Duration converts n to time at a counter frequency of hz. It saturates
// at the largest time.Duration.
func (n Ticks) Duration(hz uint64) time.Duration {
	if hz == 0 {
		return 0
	}
	hi, lo := bits.Mul64(uint64(n), uint64(time.Second))
	if hi >= hz {
		return time.Duration(1<<63 - 1)
	}
	ns, _ := bits.Div64(hi, lo, hz)
	if ns > 1<<63-1 {
		return time.Duration(1<<63 - 1)
	}
	return time.Duration(ns)
}

// TicksFromDuration converts d to ticks at a counter frequency of hz,
// rounding down. Negative durations convert to zero; results that do not
// fit saturate.
func TicksFromDuration(d time.Duration, hz uint64) Ticks {
	if d <= 0 {
		return 0
	}
	hi, lo := bits.Mul64(uint64(d), hz)
	if hi >= uint64(time.Second) {
		return Ticks(1<<64 - 1)
	}
	n, _ := bits.Div64(hi, lo, uint64(time.Second))
	return Ticks(n)
}

// TickSource reads a free-running counter.
type TickSource interface {
	Now() uint64
}

// TickSourceFunc adapts a function, e.g. a register read, to TickSource.
type TickSourceFunc func() uint64

// Now calls f.
func (f TickSourceFunc) Now() uint64 {
	return f()
}

// CounterClock is a timestamp.Clock over a TickSource running at a known
// frequency.
type CounterClock struct {
	src TickSource
	hz  uint64
}

var _ timestamp.Clock[Tick] = (*CounterClock)(nil)

// NewCounterClock creates a CounterClock reading src, which counts hz
// ticks per second.
func NewCounterClock(src TickSource, hz uint64) *CounterClock {
	return &CounterClock{src: src, hz: hz}
}

// Now returns the current counter reading.
func (c *CounterClock) Now() Tick {
	return Tick(c.src.Now())
}

// Frequency returns the counter frequency in Hz.
func (c *CounterClock) Frequency() uint64 {
	return c.hz
}

// Ticks converts d to ticks of this counter.
func (c *CounterClock) Ticks(d time.Duration) Ticks {
	return TicksFromDuration(d, c.hz)
}

// RuntimeTicks emulates a counter at a fixed frequency from the process
// monotonic clock, for hosts that have no directly readable timer.
type RuntimeTicks struct {
	epoch time.Time
	hz    uint64
}

// NewRuntimeTicks creates a RuntimeTicks counting hz ticks per second from now.
func NewRuntimeTicks(hz uint64) *RuntimeTicks {
	return &RuntimeTicks{epoch: time.Now(), hz: hz}
}

// Now returns the ticks elapsed since creation.
func (r *RuntimeTicks) Now() uint64 {
	return uint64(TicksFromDuration(time.Since(r.epoch), r.hz))
}

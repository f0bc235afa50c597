// Package timestamp defines clock-agnostic contracts for monotonic instants
// and the two consumers built on them: Timer, which decides whether a
// threshold has elapsed between two instants, and Delay, which busy-waits
// until a duration has elapsed.
//
// Nothing in this package reads a real clock or yields the CPU. Callers
// supply a clock domain (a type implementing Timestamp plus a Clock that
// produces it) and, for Delay, a relax strategy.
package timestamp

import "cmp"

// Timestamp is an instant in the clock domain T with durations of type D.
//
// T is the implementing type itself, which ties a Timer or Delay to exactly
// one clock domain: instants from different domains have different types and
// cannot be mixed.
type Timestamp[T any, D cmp.Ordered] interface {
	// DurationSinceEpoch returns the time elapsed since the clock's fixed
	// epoch.
	DurationSinceEpoch() D

	// DurationSince returns the receiver minus other. It must fail, never
	// wrap or clamp, when other is later than the receiver.
	DurationSince(other T) (D, error)
}

// Clock produces the current instant of a clock domain.
type Clock[T any] interface {
	Now() T
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc[T any] func() T

// Now calls f.
func (f ClockFunc[T]) Now() T {
	return f()
}

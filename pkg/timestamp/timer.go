package timestamp

import "cmp"

// ElapsedTimer decides whether enough time passed between two instants.
type ElapsedTimer[T any] interface {
	// Timeout reports whether the timer's duration elapsed between from and
	// to. It fails if to is earlier than from.
	Timeout(from, to T) (bool, error)
}

// Timer is the ElapsedTimer over a fixed threshold.
//
// A Timer keeps no state between calls: every Timeout result depends only on
// its two arguments and the threshold.
type Timer[T Timestamp[T, D], D cmp.Ordered] struct {
	duration D
}

// NewTimer creates a Timer with threshold d.
func NewTimer[T Timestamp[T, D], D cmp.Ordered](d D) Timer[T, D] {
	return Timer[T, D]{duration: d}
}

// Duration returns the threshold.
func (t Timer[T, D]) Duration() D {
	return t.duration
}

// SetDuration replaces the threshold.
func (t *Timer[T, D]) SetDuration(d D) {
	t.duration = d
}

// Timeout returns true when to.DurationSince(from) is at least the
// threshold. An error from DurationSince is returned unchanged.
func (t Timer[T, D]) Timeout(from, to T) (bool, error) {
	elapsed, err := to.DurationSince(from)
	if err != nil {
		return false, err
	}
	return elapsed >= t.duration, nil
}

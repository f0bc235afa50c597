package timestamp

import "errors"

// instant is a fake clock domain counting abstract units.
type instant uint64

func (i instant) DurationSinceEpoch() uint64 {
	return uint64(i)
}

func (i instant) DurationSince(other instant) (uint64, error) {
	if other > i {
		return 0, NewNegativeDurationError(i, other)
	}
	return uint64(i - other), nil
}

// fakeClock is a manually advanceable source of instants.
type fakeClock struct {
	now   instant
	reads int
}

func (c *fakeClock) Now() instant {
	c.reads++
	return c.now
}

func (c *fakeClock) advance(n uint64) {
	c.now += instant(n)
}

var errBrokenClock = errors.New("broken clock")

// brokenInstant is a domain whose durations can never be computed.
type brokenInstant struct{}

func (brokenInstant) DurationSinceEpoch() int64 {
	return 0
}

func (brokenInstant) DurationSince(brokenInstant) (int64, error) {
	return 0, errBrokenClock
}

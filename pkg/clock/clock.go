// Package clock provides concrete clock domains for pkg/timestamp: a
// nanosecond monotonic domain (MonoTime) with system, manual and replay
// clocks, and a tick-counter domain (Tick) for free-running hardware
// counters.
package clock

import (
	"time"

	"github.com/pkg/errors"

	"github.com/BYTE-6D65/tickwait/pkg/timestamp"
)

// ErrDurationOverflow is returned when the distance between two MonoTime
// values does not fit in a time.Duration.
var ErrDurationOverflow = errors.New("clock: duration overflows int64")

// MonoTime represents a monotonic timestamp in nanoseconds since a clock's epoch.
// Using int64 provides ~292 years of range with nanosecond precision.
//
// MonoTime values are only comparable when read from the same clock.
type MonoTime int64

// DurationSinceEpoch returns the nanoseconds since the epoch as a duration.
func (m MonoTime) DurationSinceEpoch() time.Duration {
	return time.Duration(m)
}

// DurationSince returns m - other. It fails with a
// *timestamp.NegativeDurationError when other is later than m.
func (m MonoTime) DurationSince(other MonoTime) (time.Duration, error) {
	if other > m {
		return 0, timestamp.NewNegativeDurationError(m, other)
	}
	d := m - other
	if d < 0 {
		return 0, errors.Wrapf(ErrDurationOverflow, "%s since %s", m, other)
	}
	return time.Duration(d), nil
}

// Add returns m shifted by d.
func (m MonoTime) Add(d time.Duration) MonoTime {
	return m + FromDuration(d)
}

// String renders m as an offset from the epoch, e.g. "mono+1.5s".
func (m MonoTime) String() string {
	return "mono+" + time.Duration(m).String()
}

// Clock provides monotonic time operations.
type Clock interface {
	timestamp.Clock[MonoTime]

	// Since returns the duration elapsed since the given monotonic time.
	// It fails if t is later than the current reading.
	Since(t MonoTime) (time.Duration, error)
}

// ToDuration converts a MonoTime (nanoseconds) to a time.Duration.
func ToDuration(ns MonoTime) time.Duration {
	return time.Duration(ns)
}

// FromDuration converts a time.Duration to MonoTime (nanoseconds).
func FromDuration(d time.Duration) MonoTime {
	return MonoTime(d.Nanoseconds())
}

// SystemClock uses the system's monotonic clock.
type SystemClock struct {
	epoch time.Time // Cached at creation to provide stable monotonic base
}

// NewSystemClock creates a new SystemClock anchored at the current time.
func NewSystemClock() *SystemClock {
	return &SystemClock{
		epoch: time.Now(),
	}
}

// Now returns the current monotonic time in nanoseconds since epoch.
func (s *SystemClock) Now() MonoTime {
	// Use time.Since which leverages monotonic clock internally
	elapsed := time.Since(s.epoch)
	return FromDuration(elapsed)
}

// Since returns the duration elapsed since the given monotonic time.
func (s *SystemClock) Since(t MonoTime) (time.Duration, error) {
	return s.Now().DurationSince(t)
}

package clock

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// SyntheticClock provides deterministic replay of recorded clock readings.
// It steps through pre-loaded deltas, optionally sleeping in real-time
// or running as fast as possible for testing.
//
// Deltas may be negative: a negative delta replays a clock that jumped
// backwards, which the timestamp contract reports as an error.
type SyntheticClock interface {
	Clock

	// Load initializes the clock with a start time and sequence of deltas
	Load(start MonoTime, deltas []time.Duration)

	// Advance moves to the next delta, optionally sleeping in real-time
	Advance()

	// SetSpeed sets the playback speed multiplier (1.0 = real-time, 2.0 = 2x speed)
	SetSpeed(mult float64)

	// SetNoSleep disables real-time sleeping (for fast testing)
	SetNoSleep(noSleep bool)

	// SetAutoAdvance makes every Now call consume the next delta
	SetAutoAdvance(auto bool)

	// Reset rewinds to the start time and the first delta
	Reset()

	// HasNext returns true if there are more deltas to advance through
	HasNext() bool

	// CurrentIndex returns the current position in the delta sequence
	CurrentIndex() int
}

// DeltaClock implements SyntheticClock for deterministic replay.
type DeltaClock struct {
	mu sync.Mutex

	start   MonoTime        // Initial timestamp
	deltas  []time.Duration // Pre-loaded deltas
	current MonoTime        // Current monotonic time
	index   int             // Current position in deltas
	speed   float64         // Playback speed multiplier
	noSleep bool            // If true, skip real-time sleeping
	auto    bool            // If true, Now consumes a delta after reading
}

var _ SyntheticClock = (*DeltaClock)(nil)

// NewDeltaClock creates a new SyntheticClock.
func NewDeltaClock() *DeltaClock {
	return &DeltaClock{
		speed: 1.0,
	}
}

// Load initializes the clock with a start time and deltas.
func (d *DeltaClock) Load(start MonoTime, deltas []time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.start = start
	d.current = start
	d.deltas = make([]time.Duration, len(deltas))
	copy(d.deltas, deltas)
	d.index = 0
}

// Now returns the current monotonic time. In auto-advance mode the clock
// then moves on by the next delta without sleeping, so successive calls
// replay the recorded readings one by one.
func (d *DeltaClock) Now() MonoTime {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.current
	if d.auto && d.index < len(d.deltas) {
		d.current = d.current.Add(d.deltas[d.index])
		d.index++
	}
	return now
}

// Since returns the duration elapsed since the given time. A failure is
// annotated with the replay position at which it happened.
func (d *DeltaClock) Since(t MonoTime) (time.Duration, error) {
	idx := d.CurrentIndex()
	elapsed, err := d.Now().DurationSince(t)
	if err != nil {
		return 0, errors.Wrapf(err, "replay index %d", idx)
	}
	return elapsed, nil
}

// Advance moves to the next delta in the sequence.
// If noSleep is false, it sleeps in real-time (scaled by speed multiplier).
// Negative deltas never sleep.
func (d *DeltaClock) Advance() {
	d.mu.Lock()

	if d.index >= len(d.deltas) {
		d.mu.Unlock()
		return // No more deltas
	}

	delta := d.deltas[d.index]
	d.index++

	// Calculate sleep duration with speed multiplier
	var sleepDuration time.Duration
	if !d.noSleep && d.speed > 0 && delta > 0 {
		sleepDuration = time.Duration(float64(delta) / d.speed)
	}

	d.current = d.current.Add(delta)

	d.mu.Unlock()

	// Sleep outside the lock
	if sleepDuration > 0 {
		time.Sleep(sleepDuration)
	}
}

// SetSpeed sets the playback speed multiplier.
func (d *DeltaClock) SetSpeed(mult float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if mult < 0 {
		mult = 1.0
	}
	d.speed = mult
}

// SetNoSleep enables or disables real-time sleeping.
func (d *DeltaClock) SetNoSleep(noSleep bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.noSleep = noSleep
}

// SetAutoAdvance enables or disables advancing on every Now call.
func (d *DeltaClock) SetAutoAdvance(auto bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.auto = auto
}

// Reset rewinds to the start time and the first delta.
func (d *DeltaClock) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = d.start
	d.index = 0
}

// HasNext returns true if there are more deltas to advance.
func (d *DeltaClock) HasNext() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.index < len(d.deltas)
}

// CurrentIndex returns the current position in the delta sequence.
func (d *DeltaClock) CurrentIndex() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.index
}

// AdvanceAll advances through all remaining deltas.
func (d *DeltaClock) AdvanceAll() {
	for d.HasNext() {
		d.Advance()
	}
}

// RemainingDeltas returns the number of deltas left to process.
func (d *DeltaClock) RemainingDeltas() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.deltas) - d.index
}

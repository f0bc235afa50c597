package relax

import "runtime"

const (
	// DefaultSpinLimit is the step after which Backoff stops spinning and
	// starts yielding.
	DefaultSpinLimit = 6

	// DefaultYieldLimit is the step after which Backoff stops growing.
	DefaultYieldLimit = 10

	// MaxSpinLimit is the largest spin step; 1<<31 is the widest uint32 spin.
	MaxSpinLimit = 31
)

// Backoff spins for an exponentially growing number of iterations, then
// switches to yielding the processor once the spin budget is exhausted.
//
// Backoff carries state across Relax calls and must not be shared between
// concurrent waits. Call Reset before reusing it for a new wait.
type Backoff struct {
	spinLimit  uint32
	yieldLimit uint32
	step       uint32
}

// NewBackoff creates a Backoff. Step k of the spin phase burns 2^k
// iterations; steps above spinLimit yield instead. yieldLimit caps the step
// counter so that Completed eventually reports true. spinLimit is clamped
// to MaxSpinLimit.
func NewBackoff(spinLimit, yieldLimit uint32) *Backoff {
	if spinLimit > MaxSpinLimit {
		spinLimit = MaxSpinLimit
	}
	if yieldLimit < spinLimit {
		yieldLimit = spinLimit
	}
	return &Backoff{
		spinLimit:  spinLimit,
		yieldLimit: yieldLimit,
	}
}

// DefaultBackoff creates a Backoff with DefaultSpinLimit and
// DefaultYieldLimit.
func DefaultBackoff() *Backoff {
	return NewBackoff(DefaultSpinLimit, DefaultYieldLimit)
}

// Relax performs one backoff step.
func (b *Backoff) Relax() {
	if b.step <= b.spinLimit {
		spin(1 << b.step)
	} else {
		runtime.Gosched()
	}
	if b.step <= b.yieldLimit {
		b.step++
	}
}

// SpinLimit returns the last spinning step.
func (b *Backoff) SpinLimit() uint32 {
	return b.spinLimit
}

// Step returns the current step.
func (b *Backoff) Step() uint32 {
	return b.step
}

// Completed reports whether the backoff reached its yield limit. Waiters
// that can block on something better than polling should switch to it.
func (b *Backoff) Completed() bool {
	return b.step > b.yieldLimit
}

// Reset restarts the backoff from the first spin step.
func (b *Backoff) Reset() {
	b.step = 0
}

//go:noinline
func spin(n uint32) {
	for i := uint32(0); i < n; i++ {
	}
}

package timestamp

import (
	"cmp"

	"github.com/BYTE-6D65/tickwait/pkg/relax"
)

// Delay busy-waits on a clock until a fixed duration has elapsed.
//
// The wait loop is fixed: the strategy decides only what happens between two
// clock readings (spin, yield, back off). A Delay keeps no memory of earlier
// executions and may be executed any number of times.
type Delay[T Timestamp[T, D], D cmp.Ordered] struct {
	clock    Clock[T]
	duration D
	strategy relax.Strategy
}

// NewDelay creates a Delay of length d on clk that spins between readings.
func NewDelay[T Timestamp[T, D], D cmp.Ordered](clk Clock[T], d D) *Delay[T, D] {
	return NewDelayWithStrategy(clk, d, relax.Spin{})
}

// NewDelayWithStrategy creates a Delay that invokes s once per wait
// iteration. A nil s selects relax.Spin.
func NewDelayWithStrategy[T Timestamp[T, D], D cmp.Ordered](clk Clock[T], d D, s relax.Strategy) *Delay[T, D] {
	if s == nil {
		s = relax.Spin{}
	}
	return &Delay[T, D]{
		clock:    clk,
		duration: d,
		strategy: s,
	}
}

// Duration returns the wait length.
func (d *Delay[T, D]) Duration() D {
	return d.duration
}

// SetDuration replaces the wait length.
func (d *Delay[T, D]) SetDuration(v D) {
	d.duration = v
}

// Strategy returns the relax strategy invoked between clock readings.
func (d *Delay[T, D]) Strategy() relax.Strategy {
	return d.strategy
}

// Exec blocks until the wait length has elapsed since Exec was called.
//
// The clock is read once for the start instant and then once per iteration.
// While the elapsed duration is strictly less than the wait length the
// strategy is relaxed once and the clock is read again. The first
// DurationSince error aborts the wait and is returned as is.
//
// There is no upper bound on the number of iterations: a clock that never
// advances and never fails keeps Exec spinning.
func (d *Delay[T, D]) Exec() error {
	start := d.clock.Now()

	for {
		elapsed, err := d.clock.Now().DurationSince(start)
		if err != nil {
			return err
		}
		if elapsed < d.duration {
			d.strategy.Relax()
			continue
		}
		return nil
	}
}

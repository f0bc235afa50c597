// Package relax provides the idle strategies a busy-wait invokes between two
// polls of its condition.
//
// A Strategy is called once per iteration with no arguments and no result;
// whether it spins, yields to the Go scheduler or sleeps is invisible to the
// waiting loop.
package relax

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Strategy is the idle action of a busy-wait iteration.
type Strategy interface {
	Relax()
}

// Spin returns immediately. The waiting loop itself is the spin; Go exposes
// no portable spin-loop hint.
type Spin struct{}

// Relax does nothing.
func (Spin) Relax() {}

// Yield hands the processor to other goroutines on every iteration.
type Yield struct{}

// Relax calls runtime.Gosched.
func (Yield) Relax() {
	runtime.Gosched()
}

// Sleep parks the goroutine for Tick on every iteration. A zero Tick behaves
// like Yield.
type Sleep struct {
	Tick time.Duration
}

// Relax sleeps for s.Tick.
func (s Sleep) Relax() {
	if s.Tick <= 0 {
		runtime.Gosched()
		return
	}
	time.Sleep(s.Tick)
}

// Func adapts a plain function to Strategy.
type Func func()

// Relax calls f.
func (f Func) Relax() {
	f()
}

// Counting wraps a Strategy and counts its invocations. It is safe to read
// Count from another goroutine while the wait is running.
type Counting struct {
	inner Strategy
	n     atomic.Uint64
}

// NewCounting wraps inner. A nil inner counts Spin invocations.
func NewCounting(inner Strategy) *Counting {
	if inner == nil {
		inner = Spin{}
	}
	return &Counting{inner: inner}
}

// Relax increments the counter and relaxes the wrapped strategy.
func (c *Counting) Relax() {
	c.n.Add(1)
	c.inner.Relax()
}

// Count returns the number of Relax calls so far.
func (c *Counting) Count() uint64 {
	return c.n.Load()
}

// Reset zeroes the counter.
func (c *Counting) Reset() {
	c.n.Store(0)
}

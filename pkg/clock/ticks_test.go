package clock

import (
	"errors"
	"testing"
	"time"

	"github.com/BYTE-6D65/tickwait/pkg/relax"
	"github.com/BYTE-6D65/tickwait/pkg/timestamp"
)

func TestTick_DurationSince(t *testing.T) {
	a, b := Tick(10), Tick(25)

	n, err := b.DurationSince(a)
	if err != nil || n != 15 {
		t.Errorf("Expected (15, nil), got (%d, %v)", n, err)
	}

	// Unsigned subtraction would wrap to a huge value here.
	if _, err := a.DurationSince(b); !errors.Is(err, timestamp.ErrNegativeDuration) {
		t.Errorf("Expected ErrNegativeDuration, got %v", err)
	}

	if a.DurationSinceEpoch() != 10 {
		t.Errorf("Expected 10 ticks since epoch, got %d", a.DurationSinceEpoch())
	}
}

func TestTicks_Conversions(t *testing.T) {
	const hz = 12_000_000 // 12MHz

	if got := TicksFromDuration(time.Microsecond, hz); got != 12 {
		t.Errorf("Expected 12 ticks per microsecond, got %d", got)
	}
	if got := Ticks(12).Duration(hz); got != time.Microsecond {
		t.Errorf("Expected 1µs, got %v", got)
	}
	if got := TicksFromDuration(-time.Second, hz); got != 0 {
		t.Errorf("Expected negative duration to convert to 0, got %d", got)
	}
	if got := Ticks(5).Duration(0); got != 0 {
		t.Errorf("Expected zero frequency to convert to 0, got %v", got)
	}
}

func TestTicks_Saturation(t *testing.T) {
	if got := Ticks(1<<64 - 1).Duration(1); got != time.Duration(1<<63-1) {
		t.Errorf("Expected saturated duration, got %v", got)
	}
	if got := TicksFromDuration(time.Duration(1<<63-1), 1<<63); got != Ticks(1<<64-1) {
		t.Errorf("Expected saturated ticks, got %d", got)
	}
}

func TestCounterClock_TimerAndDelay(t *testing.T) {
	var counter uint64
	clk := NewCounterClock(TickSourceFunc(func() uint64 { return counter }), 1_000)

	if clk.Frequency() != 1_000 {
		t.Errorf("Expected 1kHz, got %d", clk.Frequency())
	}

	timer := timestamp.NewTimer[Tick](clk.Ticks(10 * time.Millisecond))
	if timer.Duration() != 10 {
		t.Fatalf("Expected 10 ticks threshold, got %d", timer.Duration())
	}

	from := clk.Now()
	counter = 10
	timedOut, err := timer.Timeout(from, clk.Now())
	if err != nil || !timedOut {
		t.Errorf("Expected (true, nil), got (%v, %v)", timedOut, err)
	}

	relaxes := relax.NewCounting(relax.Func(func() { counter += 3 }))
	d := timestamp.NewDelayWithStrategy[Tick](clk, Ticks(7), relaxes)
	if err := d.Exec(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// 0, 3, 6 are short of 7; 9 ends the wait.
	if relaxes.Count() != 3 {
		t.Errorf("Expected 3 relax calls, got %d", relaxes.Count())
	}
}

func TestRuntimeTicks_Advances(t *testing.T) {
	src := NewRuntimeTicks(1_000_000) // 1MHz
	clk := NewCounterClock(src, 1_000_000)

	d := timestamp.NewDelayWithStrategy[Tick](clk, clk.Ticks(2*time.Millisecond), relax.Yield{})

	start := time.Now()
	if err := d.Exec(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 2*time.Millisecond {
		t.Errorf("Delay returned after %v, expected at least 2ms", elapsed)
	}
}

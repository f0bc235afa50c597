package clock

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/BYTE-6D65/tickwait/pkg/timestamp"
)

func TestMonoTime_Conversions(t *testing.T) {
	d := 100 * time.Millisecond
	mono := FromDuration(d)
	back := ToDuration(mono)

	if back != d {
		t.Errorf("Round-trip conversion failed: %v -> %v -> %v", d, mono, back)
	}

	if mono.DurationSinceEpoch() != d {
		t.Errorf("Expected %v since epoch, got %v", d, mono.DurationSinceEpoch())
	}
}

func TestMonoTime_DurationSince(t *testing.T) {
	a := MonoTime(1000)
	b := a.Add(50 * time.Millisecond)

	elapsed, err := b.DurationSince(a)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if elapsed != 50*time.Millisecond {
		t.Errorf("Expected 50ms, got %v", elapsed)
	}

	same, err := a.DurationSince(a)
	if err != nil || same != 0 {
		t.Errorf("Expected (0, nil) for equal instants, got (%v, %v)", same, err)
	}
}

func TestMonoTime_DurationSinceLaterFails(t *testing.T) {
	a := MonoTime(1000)
	b := MonoTime(1001)

	_, err := a.DurationSince(b)
	if !errors.Is(err, timestamp.ErrNegativeDuration) {
		t.Fatalf("Expected ErrNegativeDuration, got %v", err)
	}

	var nde *timestamp.NegativeDurationError
	if !errors.As(err, &nde) {
		t.Fatalf("Expected *NegativeDurationError, got %T", err)
	}
	if nde.Since != a.String() || nde.Other != b.String() {
		t.Errorf("Unexpected instants in error: %+v", nde)
	}
}

func TestMonoTime_DurationSinceOverflow(t *testing.T) {
	a := MonoTime(math.MaxInt64)
	b := MonoTime(-1)

	_, err := a.DurationSince(b)
	if !errors.Is(err, ErrDurationOverflow) {
		t.Errorf("Expected ErrDurationOverflow, got %v", err)
	}
}

func TestMonoTime_String(t *testing.T) {
	m := FromDuration(1500 * time.Millisecond)
	if m.String() != "mono+1.5s" {
		t.Errorf("Unexpected string %q", m.String())
	}
}

func TestSystemClock_Now(t *testing.T) {
	clk := NewSystemClock()

	t1 := clk.Now()
	time.Sleep(10 * time.Millisecond)
	t2 := clk.Now()

	if t2 <= t1 {
		t.Error("Clock should advance monotonically")
	}

	elapsed := t2 - t1
	if elapsed < FromDuration(10*time.Millisecond) {
		t.Errorf("Expected at least 10ms elapsed, got %v", ToDuration(elapsed))
	}
}

func TestSystemClock_Since(t *testing.T) {
	clk := NewSystemClock()

	start := clk.Now()
	time.Sleep(20 * time.Millisecond)
	elapsed, err := clk.Since(start)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if elapsed < 20*time.Millisecond {
		t.Errorf("Expected at least 20ms, got %v", elapsed)
	}
}

func TestSystemClock_SinceFuture(t *testing.T) {
	clk := NewSystemClock()

	future := clk.Now().Add(time.Hour)
	if _, err := clk.Since(future); !errors.Is(err, timestamp.ErrNegativeDuration) {
		t.Errorf("Expected ErrNegativeDuration, got %v", err)
	}
}

func TestSystemClock_MonotonicBehavior(t *testing.T) {
	clk := NewSystemClock()

	// Capture many timestamps rapidly
	const iterations = 1000
	timestamps := make([]MonoTime, iterations)

	for i := 0; i < iterations; i++ {
		timestamps[i] = clk.Now()
	}

	for i := 1; i < len(timestamps); i++ {
		if _, err := timestamps[i].DurationSince(timestamps[i-1]); err != nil {
			t.Errorf("Non-monotonic at index %d: %v", i, err)
		}
	}
}

func TestSystemClock_Delay(t *testing.T) {
	clk := NewSystemClock()
	d := timestamp.NewDelay[MonoTime](clk, 5*time.Millisecond)

	start := time.Now()
	if err := d.Exec(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("Delay returned after %v, expected at least 5ms", elapsed)
	}
}

func TestSystemClock_Timer(t *testing.T) {
	clk := NewSystemClock()
	timer := timestamp.NewTimer[MonoTime](10 * time.Millisecond)

	from := clk.Now()
	timedOut, err := timer.Timeout(from, from.Add(10*time.Millisecond))
	if err != nil || !timedOut {
		t.Errorf("Expected (true, nil) at the threshold, got (%v, %v)", timedOut, err)
	}

	timedOut, err = timer.Timeout(from, from.Add(9*time.Millisecond))
	if err != nil || timedOut {
		t.Errorf("Expected (false, nil) below the threshold, got (%v, %v)", timedOut, err)
	}
}

package timestamp

import (
	"errors"
	"testing"

	"pgregory.net/rapid"
)

func TestClockFunc_Now(t *testing.T) {
	calls := 0
	clk := ClockFunc[instant](func() instant {
		calls++
		return instant(calls * 10)
	})

	if clk.Now() != 10 || clk.Now() != 20 {
		t.Error("ClockFunc should call the wrapped function on every read")
	}
}

func TestNegativeDurationError(t *testing.T) {
	err := NewNegativeDurationError(instant(3), instant(7))

	if !errors.Is(err, ErrNegativeDuration) {
		t.Error("NegativeDurationError should unwrap to ErrNegativeDuration")
	}
	if err.Since != "3" || err.Other != "7" {
		t.Errorf("Unexpected rendering: %+v", err)
	}

	want := "timestamp: negative duration: 3 is earlier than 7"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

func TestInstant_DurationSinceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := instant(rapid.Uint64Range(0, 1<<62).Draw(t, "a"))
		gap := rapid.Uint64Range(0, 1<<62).Draw(t, "gap")
		b := a + instant(gap)

		elapsed, err := b.DurationSince(a)
		if err != nil {
			t.Fatalf("b at or after a must succeed: %v", err)
		}
		if elapsed != gap {
			t.Fatalf("expected %d, got %d", gap, elapsed)
		}

		_, err = a.DurationSince(b)
		if gap > 0 && !errors.Is(err, ErrNegativeDuration) {
			t.Fatalf("a before b must fail, got %v", err)
		}
		if gap == 0 && err != nil {
			t.Fatalf("equal instants must succeed, got %v", err)
		}
	})
}

package relax

import (
	"context"
	"errors"
	"testing"
)

func waitUntilCanceled(s Strategy) (err error) {
	defer Recover(&err)
	for {
		s.Relax()
	}
}

func TestCancel_AbortsWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	s := Cancel{
		Ctx: ctx,
		Inner: Func(func() {
			calls++
			if calls == 3 {
				cancel()
			}
		}),
	}

	err := waitUntilCanceled(s)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	var c *Canceled
	if !errors.As(err, &c) {
		t.Fatalf("Expected *Canceled, got %T", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 inner relaxes before cancel, got %d", calls)
	}
}

func TestCancel_UsesCause(t *testing.T) {
	cause := errors.New("operator abort")
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(cause)

	err := waitUntilCanceled(Cancel{Ctx: ctx})
	if !errors.Is(err, cause) {
		t.Errorf("Expected cause to propagate, got %v", err)
	}
}

func TestCancel_NilContext(t *testing.T) {
	counting := NewCounting(Spin{})
	s := Cancel{Inner: counting}

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Cancel without a context should not panic: %v", r)
		}
	}()
	s.Relax()
	s.Relax()
	Cancel{}.Relax()

	if counting.Count() != 2 {
		t.Errorf("Expected 2 inner relaxes, got %d", counting.Count())
	}
}

func TestRecover_RepanicsOtherValues(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("Expected foreign panic to propagate, got %v", r)
		}
	}()

	_ = waitUntilCanceled(Func(func() { panic("boom") }))
	t.Fatal("unreachable")
}

func TestRecover_NoPanic(t *testing.T) {
	err := func() (err error) {
		defer Recover(&err)
		return nil
	}()
	if err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
}

func TestCanceled_NilErr(t *testing.T) {
	c := &Canceled{}
	if c.Error() != ErrCanceled.Error() {
		t.Errorf("Unexpected message %q", c.Error())
	}
}

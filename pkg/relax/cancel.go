package relax

import (
	"context"
	"errors"
)

// ErrCanceled is the cause carried by a Cancel panic when its context has
// no more specific error.
var ErrCanceled = errors.New("relax: wait canceled")

// Canceled is the panic value raised by Cancel.
type Canceled struct {
	Err error
}

func (c *Canceled) Error() string {
	if c.Err == nil {
		return ErrCanceled.Error()
	}
	return "relax: wait canceled: " + c.Err.Error()
}

func (c *Canceled) Unwrap() error {
	return c.Err
}

// Cancel relaxes Inner until Ctx is done and then aborts the wait by
// panicking with *Canceled. A busy-wait offers no other exit than its relax
// hook; use Recover at the call site to turn the panic back into an error.
// A nil Ctx never cancels.
type Cancel struct {
	Ctx   context.Context
	Inner Strategy
}

// Relax panics once c.Ctx is done, otherwise relaxes c.Inner.
func (c Cancel) Relax() {
	if c.Ctx != nil {
		if err := c.Ctx.Err(); err != nil {
			if cause := context.Cause(c.Ctx); cause != nil {
				err = cause
			}
			panic(&Canceled{Err: err})
		}
	}
	if c.Inner != nil {
		c.Inner.Relax()
	}
}

// Recover stores a Cancel panic into *errp. Other panics are re-raised.
//
//	func wait(ctx context.Context) (err error) {
//		defer relax.Recover(&err)
//		return delay.Exec()
//	}
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	c, ok := r.(*Canceled)
	if !ok {
		panic(r)
	}
	if c.Err == nil {
		c.Err = ErrCanceled
	}
	*errp = c
}

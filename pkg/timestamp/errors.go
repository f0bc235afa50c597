package timestamp

import (
	"errors"
	"fmt"
)

// ErrNegativeDuration is reported when a duration between two instants
// would be negative, i.e. the clock moved backwards between readings.
var ErrNegativeDuration = errors.New("timestamp: negative duration")

// NegativeDurationError describes a failed DurationSince call. It unwraps to
// ErrNegativeDuration.
type NegativeDurationError struct {
	// Since is the receiver of DurationSince (the expected later instant)
	Since string
	// Other is the argument (the expected earlier instant)
	Other string
}

// NewNegativeDurationError renders both instants with %v.
func NewNegativeDurationError(since, other any) *NegativeDurationError {
	return &NegativeDurationError{
		Since: fmt.Sprint(since),
		Other: fmt.Sprint(other),
	}
}

func (e *NegativeDurationError) Error() string {
	return fmt.Sprintf("timestamp: negative duration: %s is earlier than %s", e.Since, e.Other)
}

func (e *NegativeDurationError) Unwrap() error {
	return ErrNegativeDuration
}

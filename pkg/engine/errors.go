package engine

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrStopped is returned when the engine is not running.
	ErrStopped = errors.New("engine: stopped")

	// ErrUnhealthy is returned for reloads after a handler timed out.
	ErrUnhealthy = errors.New("engine: unhealthy, restart required")

	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("engine: already started")
)

// TimeoutError reports a handler that was interrupted by the call watchdog.
// Err is whatever the runtime returned once interrupted, possibly nil.
type TimeoutError struct {
	Route string
	After time.Duration
	Err   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("handler %s exceeded %s and was interrupted; engine is now unavailable", e.Route, e.After)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is or wraps a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

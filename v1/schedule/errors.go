package schedule

import "errors"

var (
	// ErrNilJob is returned when a nil function is scheduled.
	ErrNilJob = errors.New("schedule: nil job")

	// ErrJobSignature is returned when a Scheduled method has a signature
	// the scheduler cannot call.
	ErrJobSignature = errors.New("schedule: method must take no arguments or a context.Context and return nothing or an error")
)

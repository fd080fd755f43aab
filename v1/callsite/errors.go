package callsite

import "errors"

var (
	// ErrNoSuchMethod is returned when an instance has no exported method of the requested name.
	ErrNoSuchMethod = errors.New("callsite: no such method")

	// ErrNilInstance is returned when a method is requested on a nil instance.
	ErrNilInstance = errors.New("callsite: nil instance")
)

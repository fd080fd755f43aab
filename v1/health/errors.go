package health

import "errors"

var (
	// ErrDuplicateCheck is returned when a check name is already registered.
	ErrDuplicateCheck = errors.New("health: check already registered")

	// ErrNotChecker is returned when a component annotated with Check does
	// not implement Checker.
	ErrNotChecker = errors.New("health: annotated component does not implement Checker")

	// ErrCheckPanic wraps a panic recovered from a check.
	ErrCheckPanic = errors.New("health: check panicked")
)

// IsDuplicateCheck reports whether err is a duplicate registration.
func IsDuplicateCheck(err error) bool {
	return errors.Is(err, ErrDuplicateCheck)
}

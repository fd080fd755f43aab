package naming

import "errors"

var (
	// ErrMissingProvider is returned when a request-scoped filter runs without
	// a request-context provider. This is a wiring bug.
	ErrMissingProvider = errors.New("naming: request-context provider not wired")
)

// IsMissingProvider reports whether err is a missing provider error.
func IsMissingProvider(err error) bool {
	return errors.Is(err, ErrMissingProvider)
}

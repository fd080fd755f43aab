package activation

import "errors"

var (
	// ErrNotAnnotation is returned when an activator is created for an
	// interface type, which no annotation value can ever match.
	ErrNotAnnotation = errors.New("activation: annotation type must be concrete")

	// ErrListenerPanic wraps a panic recovered from a listener.
	ErrListenerPanic = errors.New("activation: listener panicked")
)

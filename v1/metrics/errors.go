package metrics

import "errors"

var (
	// ErrNameCollision is returned when a formatted name is already registered
	// with a different kind, or when it would export the same Prometheus
	// series as another name.
	ErrNameCollision = errors.New("metrics: name registered with a different kind")

	// ErrNilName is returned when an observable is requested without a name.
	ErrNilName = errors.New("metrics: nil metric name")
)

// IsNameCollision reports whether err is a name collision.
func IsNameCollision(err error) bool {
	return errors.Is(err, ErrNameCollision)
}

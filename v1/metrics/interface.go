package metrics

import (
	"time"

	"github.com/Aleph-Alpha/fxinstrument/v1/naming"
)

// Counter is a value that goes up and down, e.g. in-flight calls.
type Counter interface {
	Inc()
	Dec()
	Add(delta int64)
	Count() int64
}

// Meter counts events.
type Meter interface {
	Mark(n int64)
	Count() int64
}

// Timer records durations.
type Timer interface {
	Update(d time.Duration)
	// Time runs fn and records how long it took.
	Time(fn func())
	Count() int64
}

// Histogram records a distribution of values.
type Histogram interface {
	Update(v float64)
	Count() int64
}

// Gauge samples a value on every read.
type Gauge interface {
	Value() float64
}

// Registry stores observables under their formatted names.
//
// Requesting a name that is already registered with the same kind returns the
// existing observable. A different kind fails with ErrNameCollision.
//
// This interface is implemented by the concrete *Metrics type.
type Registry interface {
	Counter(name *naming.MetricName) (Counter, error)
	Meter(name *naming.MetricName) (Meter, error)
	Timer(name *naming.MetricName) (Timer, error)
	Histogram(name *naming.MetricName) (Histogram, error)
	Gauge(name *naming.MetricName, fn func() float64) (Gauge, error)

	// Unregister removes an observable and reports whether it existed.
	Unregister(name *naming.MetricName) bool

	// Names returns the registered formatted names, sorted.
	Names() []string
}

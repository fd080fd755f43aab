package instrument

// Counted counts the in-flight invocations of a method or constructor. With
// Monotonic set the counter only goes up and counts invocations instead.
type Counted struct {
	Name      string
	Absolute  bool
	Monotonic bool
}

// MetricName implements naming.Named.
func (a Counted) MetricName() (string, bool) { return a.Name, a.Absolute }

// Timed records the duration of every invocation.
type Timed struct {
	Name     string
	Absolute bool
}

// MetricName implements naming.Named.
func (a Timed) MetricName() (string, bool) { return a.Name, a.Absolute }

// Metered marks a meter on every invocation.
type Metered struct {
	Name     string
	Absolute bool
}

// MetricName implements naming.Named.
func (a Metered) MetricName() (string, bool) { return a.Name, a.Absolute }

// ExceptionMetered marks a meter for every invocation that fails. With Cause
// set only errors matching it with errors.Is are counted. An empty Name
// defaults to the member name with DefaultExceptionSuffix.
type ExceptionMetered struct {
	Name     string
	Absolute bool
	Cause    error
}

// DefaultExceptionSuffix is appended to the member name of unnamed
// ExceptionMetered sites.
const DefaultExceptionSuffix = ".exceptions"

// MetricName implements naming.Named.
func (a ExceptionMetered) MetricName() (string, bool) { return a.Name, a.Absolute }

// Traced opens a span around every invocation. An empty Name uses the
// qualified method name.
type Traced struct {
	Name string
}

// Metric names an injected observable.
type Metric struct {
	Name     string
	Absolute bool
}

// MetricName implements naming.Named.
func (a Metric) MetricName() (string, bool) { return a.Name, a.Absolute }

// Gauge exposes the result of a niladic numeric method as a gauge.
type Gauge struct {
	Name     string
	Absolute bool
}

// MetricName implements naming.Named.
func (a Gauge) MetricName() (string, bool) { return a.Name, a.Absolute }

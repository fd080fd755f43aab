// Package instrument ties annotations on components to observables.
//
// Method and constructor annotations are served by interceptor factories
// registered in the capability catalog:
//
//	Counted           in-flight counter, or an invocation count when Monotonic
//	Timed             timer around every invocation
//	Metered           meter marked on every invocation
//	ExceptionMetered  meter marked on failures, optionally filtered by Cause
//	Traced            span around every invocation
//
// Fields are injected with observables after construction. A field of type
// metrics.Counter, Meter, Timer or Histogram is injected when it carries the
// metric tag:
//
//	type Widget struct {
//	    Total  metrics.Counter `metric:""`
//	    Errors metrics.Meter   `metric:"com.widget.errors,absolute"`
//	}
//
// Methods annotated with Gauge are exposed as gauges while their singleton
// lives.
//
// Names come from the naming chain. When a name collides with an observable
// of another kind the site is left uninstrumented and a warning is logged.
package instrument

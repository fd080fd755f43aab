package naming

import (
	"context"

	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
)

const (
	// PriorityEstablish is the band of filters that set the base name.
	PriorityEstablish = 4000
	// PriorityOverride is the band of filters that replace the base name.
	PriorityOverride = 3000
	// PriorityTag is the band of filters that add tags.
	PriorityTag = 2000
	// PriorityTagOverride is the band of filters that force tag values.
	PriorityTagOverride = 1000
)

// Request is one naming request.
type Request struct {
	// Site is where the observable is created. It may be nil for
	// programmatic observables.
	Site *callsite.Site
	// Kind is the observable kind.
	Kind Kind
	// Annotation is the annotation that caused the observable, if any.
	// Filters reading annotated names prefer it over the site's annotations.
	Annotation any
}

// Filter contributes to a name. A filter with nothing to add returns its
// input unchanged.
type Filter interface {
	Priority() int
	Filter(ctx context.Context, name *MetricName, req Request) (*MetricName, error)
}

// RequestScoped is implemented by filters whose output depends on the
// in-flight request. Their results are never cached.
type RequestScoped interface {
	RequestScoped() bool
}

// Named is implemented by annotations that carry a metric name.
type Named interface {
	MetricName() (name string, absolute bool)
}

// Tags is an annotation adding constant tags to every observable of the
// annotated type or member.
type Tags map[string]string

// FilterFunc adapts a function to Filter.
type FilterFunc struct {
	P  int
	Fn func(ctx context.Context, name *MetricName, req Request) (*MetricName, error)
}

// Priority implements Filter.
func (f FilterFunc) Priority() int { return f.P }

// Filter implements Filter.
func (f FilterFunc) Filter(ctx context.Context, name *MetricName, req Request) (*MetricName, error) {
	return f.Fn(ctx, name, req)
}

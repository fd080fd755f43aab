package naming

import (
	"context"
	"reflect"

	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
	"github.com/Aleph-Alpha/fxinstrument/v1/requestctx"
)

// DefaultNameFilter establishes the base name from the site position. It
// never replaces a name that is already set.
type DefaultNameFilter struct{}

// Priority implements Filter.
func (DefaultNameFilter) Priority() int { return PriorityEstablish }

// Filter implements Filter.
func (DefaultNameFilter) Filter(_ context.Context, name *MetricName, req Request) (*MetricName, error) {
	if name.Name() != "" {
		return name, nil
	}
	if base := siteName(req.Site); base != "" {
		name.SetName(base)
	}
	return name, nil
}

// AnnotatedNameFilter replaces the base name with the name of a Named
// annotation: verbatim when absolute, under the declaring type otherwise.
type AnnotatedNameFilter struct{}

// Priority implements Filter.
func (AnnotatedNameFilter) Priority() int { return PriorityOverride }

// Filter implements Filter.
func (AnnotatedNameFilter) Filter(_ context.Context, name *MetricName, req Request) (*MetricName, error) {
	named, ok := namedAnnotation(req)
	if !ok {
		return name, nil
	}
	n, absolute := named.MetricName()
	if n == "" {
		return name, nil
	}
	if absolute {
		return name.SetName(n), nil
	}
	var qualifier string
	if req.Site != nil {
		qualifier = req.Site.Declaring.QualifiedName()
	}
	return name.SetName(join(qualifier, n)), nil
}

func namedAnnotation(req Request) (Named, bool) {
	if named, ok := req.Annotation.(Named); ok {
		return named, true
	}
	if req.Annotation != nil || req.Site == nil {
		return nil, false
	}
	for _, a := range req.Site.Annotations {
		if named, ok := a.(Named); ok {
			return named, true
		}
	}
	return nil, false
}

var tagsType = reflect.TypeOf(Tags(nil))

// AnnotationTagFilter adds the tags of Tags annotations, the type's first
// and then the member's.
type AnnotationTagFilter struct{}

// Priority implements Filter.
func (AnnotationTagFilter) Priority() int { return PriorityTag }

// Filter implements Filter.
func (AnnotationTagFilter) Filter(_ context.Context, name *MetricName, req Request) (*MetricName, error) {
	if req.Site == nil {
		return name, nil
	}
	if req.Site.Declaring != nil {
		if v, ok := req.Site.Declaring.FindAnnotation(tagsType); ok {
			name.AddTags(v.(Tags))
		}
	}
	if v, ok := req.Site.Annotations.Find(tagsType); ok {
		name.AddTags(v.(Tags))
	}
	return name, nil
}

// Tag keys added by RequestTagFilter.
const (
	TagMethod    = "method"
	TagResource  = "resource"
	TagOperation = "operation"
)

// RequestTagFilter adds tags describing the in-flight request.
//
// It is a no-op outside a request and for sites whose component outlives a
// request, since a singleton caching the observable would keep the tags of
// whichever request created it.
type RequestTagFilter struct {
	Provider requestctx.Provider
}

// Priority implements Filter.
func (RequestTagFilter) Priority() int { return PriorityTag }

// RequestScoped implements RequestScoped.
func (RequestTagFilter) RequestScoped() bool { return true }

// Filter implements Filter.
func (f RequestTagFilter) Filter(ctx context.Context, name *MetricName, req Request) (*MetricName, error) {
	if f.Provider == nil {
		return name, ErrMissingProvider
	}
	if req.Site != nil && req.Site.Scope().OutlivesRequest() {
		return name, nil
	}
	info, ok := f.Provider.Current(ctx)
	if !ok {
		return name, nil
	}
	if info.Method != "" {
		name.AddTag(TagMethod, info.Method)
	}
	if info.Resource != "" {
		name.AddTag(TagResource, info.Resource)
	}
	if info.Operation != "" {
		name.AddTag(TagOperation, info.Operation)
	}
	return name, nil
}

// ConstantTagFilter forces constant tags, overriding earlier values.
type ConstantTagFilter struct {
	Tags map[string]string
}

// Priority implements Filter.
func (ConstantTagFilter) Priority() int { return PriorityTagOverride }

// Filter implements Filter.
func (f ConstantTagFilter) Filter(_ context.Context, name *MetricName, _ Request) (*MetricName, error) {
	return name.AddTags(f.Tags), nil
}

// DefaultFilters returns the built-in filters. provider may be nil when no
// request-scoped tags are wanted; tags may be empty.
func DefaultFilters(provider requestctx.Provider, tags map[string]string) []Filter {
	filters := []Filter{
		DefaultNameFilter{},
		AnnotatedNameFilter{},
		AnnotationTagFilter{},
	}
	if provider != nil {
		filters = append(filters, RequestTagFilter{Provider: provider})
	}
	if len(tags) > 0 {
		filters = append(filters, ConstantTagFilter{Tags: tags})
	}
	return filters
}

func siteName(site *callsite.Site) string {
	if site == nil {
		return ""
	}
	qualified := site.Declaring.QualifiedName()
	switch site.Kind {
	case callsite.KindConstructor:
		return join(qualified, site.TypeName())
	case callsite.KindType:
		return qualified
	default:
		return join(qualified, site.Member)
	}
}

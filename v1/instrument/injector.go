package instrument

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/Aleph-Alpha/fxinstrument/v1/activation"
	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
	"github.com/Aleph-Alpha/fxinstrument/v1/metrics"
	"github.com/Aleph-Alpha/fxinstrument/v1/naming"
)

// TagName is the struct tag read by the Injector.
const TagName = "metric"

var (
	counterType   = reflect.TypeFor[metrics.Counter]()
	meterType     = reflect.TypeFor[metrics.Meter]()
	timerType     = reflect.TypeFor[metrics.Timer]()
	histogramType = reflect.TypeFor[metrics.Histogram]()
)

// Injector fills observable fields of components. A field takes part when
// it carries the metric tag:
//
//	type Widget struct {
//	    Total  metrics.Counter `metric:""`                  // pkg.Widget.total
//	    Render metrics.Timer   `metric:"render.latency"`    // pkg.Widget.render.latency
//	    Hits   metrics.Meter   `metric:"com.hits,absolute"` // com.hits
//	}
//
// The member name of a field is its Go name with the leading upper-case run
// lowered, so Total becomes total and HTTPErrors becomes httpErrors.
type Injector struct {
	chain    *naming.Chain
	registry metrics.Registry
	log      logger.Logger
}

// NewInjector creates an injector.
func NewInjector(chain *naming.Chain, registry metrics.Registry, log logger.Logger) *Injector {
	if log == nil {
		log = logger.NewNop()
	}
	return &Injector{chain: chain, registry: registry, log: log}
}

// Inject sets every tagged nil observable field of the struct target points
// to. desc describes the component; nil derives it from the target type.
// Fields already set are left alone.
func (i *Injector) Inject(ctx context.Context, target any, desc *callsite.Type) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T", ErrNotStruct, target)
	}
	v = v.Elem()
	rt := v.Type()
	if desc == nil {
		desc = callsite.DescribeType(rt)
	}

	var injected []string
	for idx := 0; idx < rt.NumField(); idx++ {
		field := rt.Field(idx)
		tag, ok := field.Tag.Lookup(TagName)
		if !ok {
			continue
		}
		if !field.IsExported() {
			return fmt.Errorf("%w: %s.%s is unexported", ErrUnsupportedField, rt.Name(), field.Name)
		}
		if !isObservableType(field.Type) {
			return fmt.Errorf("%w: %s.%s has type %v", ErrUnsupportedField, rt.Name(), field.Name, field.Type)
		}
		fv := v.Field(idx)
		if !fv.IsNil() {
			continue
		}

		ann := parseTag(tag)
		site := callsite.FieldOf(desc, memberName(field.Name), ann)
		obs, err := i.observable(ctx, field.Type, site, ann)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", rt.Name(), field.Name, err)
		}
		fv.Set(reflect.ValueOf(obs))
		injected = append(injected, field.Name)
	}

	if len(injected) > 0 {
		i.log.Debug("Observables injected", nil, map[string]interface{}{
			"type":   desc.QualifiedName(),
			"fields": injected,
		})
	}
	return nil
}

func isObservableType(ft reflect.Type) bool {
	switch ft {
	case counterType, meterType, timerType, histogramType:
		return true
	}
	return false
}

func (i *Injector) observable(ctx context.Context, ft reflect.Type, site *callsite.Site, ann Metric) (any, error) {
	req := naming.Request{Site: site, Annotation: ann}
	switch ft {
	case counterType:
		req.Kind = naming.KindCounter
		return i.registry.Counter(i.chain.NameOrFallback(ctx, req))
	case meterType:
		req.Kind = naming.KindMeter
		return i.registry.Meter(i.chain.NameOrFallback(ctx, req))
	case timerType:
		req.Kind = naming.KindTimer
		return i.registry.Timer(i.chain.NameOrFallback(ctx, req))
	case histogramType:
		req.Kind = naming.KindHistogram
		return i.registry.Histogram(i.chain.NameOrFallback(ctx, req))
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedField, ft)
	}
}

// OnEvent implements activation.Listener by injecting every constructed
// pointer to a struct. Other instances are ignored.
func (i *Injector) OnEvent(ev activation.Event) error {
	if ev.Type != activation.PostConstruction {
		return nil
	}
	v := reflect.ValueOf(ev.Instance)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil
	}
	return i.Inject(context.Background(), ev.Instance, ev.Descriptor)
}

// parseTag reads `metric:"name,absolute"`.
func parseTag(tag string) Metric {
	name, opts, _ := strings.Cut(tag, ",")
	m := Metric{Name: name}
	for _, opt := range strings.Split(opts, ",") {
		if strings.TrimSpace(opt) == "absolute" {
			m.Absolute = true
		}
	}
	return m
}

func memberName(field string) string {
	runes := []rune(field)
	upper := 0
	for upper < len(runes) && unicode.IsUpper(runes[upper]) {
		upper++
	}
	// Keep the last rune of a longer run upper-case, it starts the next word.
	if upper > 1 && upper < len(runes) {
		upper--
	}
	for j := 0; j < upper; j++ {
		runes[j] = unicode.ToLower(runes[j])
	}
	return string(runes)
}

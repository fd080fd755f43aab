package instrument

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/Aleph-Alpha/fxinstrument/v1/activation"
	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
	"github.com/Aleph-Alpha/fxinstrument/v1/metrics"
	"github.com/Aleph-Alpha/fxinstrument/v1/naming"
)

// GaugeActivator registers a gauge for every Gauge method of constructed
// singletons and unregisters it on destruction.
//
// Instances whose gauges share a name share one gauge. It samples the oldest
// live instance and is unregistered when the last one is destroyed.
type GaugeActivator struct {
	*activation.MethodActivator[Gauge]

	chain    *naming.Chain
	registry metrics.Registry

	mu     sync.Mutex
	owners map[string][]gaugeOwner
}

type gaugeOwner struct {
	instance any
	fn       func() float64
}

// NewGaugeActivator creates the activator.
func NewGaugeActivator(chain *naming.Chain, registry metrics.Registry) (*GaugeActivator, error) {
	g := &GaugeActivator{chain: chain, registry: registry, owners: map[string][]gaugeOwner{}}
	ma, err := activation.NewMethodActivator(callsite.ScopeSingleton, g.activate, g.deactivate)
	if err != nil {
		return nil, err
	}
	g.MethodActivator = ma
	return g, nil
}

func (g *GaugeActivator) activate(t activation.MethodTarget[Gauge]) error {
	mv, err := callsite.MethodValue(t.Instance, t.Method.Name)
	if err != nil {
		return err
	}
	fn, err := gaugeFunc(mv)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", t.Descriptor.QualifiedName(), t.Method.Name, err)
	}
	name := g.name(t)
	key := naming.Format(name)

	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.owners[key]) == 0 {
		if _, err := g.registry.Gauge(name, fn); err != nil {
			return err
		}
	}
	g.owners[key] = append(g.owners[key], gaugeOwner{instance: t.Instance, fn: fn})
	return nil
}

func (g *GaugeActivator) deactivate(t activation.MethodTarget[Gauge]) error {
	name := g.name(t)
	key := naming.Format(name)

	g.mu.Lock()
	defer g.mu.Unlock()
	owners := g.owners[key]
	idx := slices.IndexFunc(owners, func(o gaugeOwner) bool { return sameInstance(o.instance, t.Instance) })
	if idx < 0 {
		return nil
	}
	owners = slices.Delete(owners, idx, idx+1)
	if len(owners) == 0 {
		delete(g.owners, key)
		g.registry.Unregister(name)
		return nil
	}
	g.owners[key] = owners
	if idx == 0 {
		g.registry.Unregister(name)
		_, err := g.registry.Gauge(name, owners[0].fn)
		return err
	}
	return nil
}

func (g *GaugeActivator) name(t activation.MethodTarget[Gauge]) *naming.MetricName {
	return g.chain.NameOrFallback(context.Background(), naming.Request{
		Site:       callsite.MethodOf(t.Descriptor, t.Method.Name),
		Kind:       naming.KindGauge,
		Annotation: t.Annotation,
	})
}

func sameInstance(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Pointer && vb.Kind() == reflect.Pointer {
		return va.Type() == vb.Type() && va.Pointer() == vb.Pointer()
	}
	if va.IsValid() && va.Type().Comparable() && vb.IsValid() && vb.Type().Comparable() {
		return a == b
	}
	return false
}

func gaugeFunc(mv reflect.Value) (func() float64, error) {
	mt := mv.Type()
	if mt.NumIn() != 0 || mt.NumOut() != 1 {
		return nil, ErrGaugeSignature
	}
	switch mt.Out(0).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func() float64 { return float64(mv.Call(nil)[0].Int()) }, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func() float64 { return float64(mv.Call(nil)[0].Uint()) }, nil
	case reflect.Float32, reflect.Float64:
		return func() float64 { return mv.Call(nil)[0].Float() }, nil
	default:
		return nil, ErrGaugeSignature
	}
}

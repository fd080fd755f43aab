package interception

import (
	"fmt"

	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
	"github.com/Aleph-Alpha/fxinstrument/v1/capability"
	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
)

// Binding is a factory that accepted a call site.
type Binding struct {
	// Name is the registration name of the factory.
	Name string
	// Annotation is the annotation instance that matched.
	Annotation any
	// Interceptor is what the factory provided.
	Interceptor Interceptor
}

// Resolver matches registered interceptor factories against call sites.
type Resolver struct {
	registry capability.Registry
	log      logger.Logger
}

// NewResolver creates a resolver over registry.
func NewResolver(registry capability.Registry, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewNop()
	}
	return &Resolver{registry: registry, log: log}
}

// Resolve returns the bindings of every factory of capability k whose
// annotation is present on site, in registry order. Misconfigured or failing
// factories are logged and skipped.
func (r *Resolver) Resolve(site *callsite.Site, k capability.Kind) []Binding {
	var out []Binding
	for _, h := range r.registry.All(k) {
		b, ok, err := r.bind(h, site, k)
		if err != nil {
			r.log.Warn("Skipping interceptor factory", err, map[string]interface{}{
				"factory":    h.Name(),
				"capability": string(k),
				"site":       site.ID(),
			})
			continue
		}
		if ok {
			out = append(out, b)
		}
	}
	return out
}

func (r *Resolver) bind(h capability.Handle, site *callsite.Site, k capability.Kind) (Binding, bool, error) {
	meta, err := h.Reify()
	if err != nil {
		return Binding{}, false, err
	}

	contract, ok := meta.ContractFor(k)
	if !ok {
		return Binding{}, false, fmt.Errorf("%w: %s does not advertise %s", capability.ErrNoContract, meta.Name, k)
	}
	if !callsite.IsAnnotationType(contract.Argument) {
		return Binding{}, false, fmt.Errorf("%w: %v", capability.ErrNotAnnotation, contract.Argument)
	}

	annotation, ok := site.Find(contract.Argument)
	if !ok {
		return Binding{}, false, nil
	}

	inst, err := h.Instance()
	if err != nil {
		return Binding{}, false, err
	}
	provider, ok := inst.(Provider)
	if !ok {
		return Binding{}, false, fmt.Errorf("%w: %T", ErrNotProvider, inst)
	}

	interceptor, err := provide(provider, k, site, annotation)
	if err != nil || interceptor == nil {
		return Binding{}, false, err
	}
	return Binding{Name: meta.Name, Annotation: annotation, Interceptor: interceptor}, true, nil
}

func provide(p Provider, k capability.Kind, site *callsite.Site, annotation any) (i Interceptor, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrFactoryPanic, rec)
		}
	}()
	return p.Provide(k, site, annotation), nil
}

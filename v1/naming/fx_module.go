package naming

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/fxinstrument/v1/capability"
	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
	"github.com/Aleph-Alpha/fxinstrument/v1/requestctx"
)

// FXModule provides the *Chain built from the default filters, the
// configured constant tags and every NamingFilter in the capability registry.
// A requestctx.Provider reading the request from the context is provided
// unless the application decorates it.
//
// Usage:
//
//	app := fx.New(
//	    capability.FXModule,
//	    naming.FXModule,
//	    capability.Contribute(naming.Register("tenant-tags", tenantFilter)),
//	)
var FXModule = fx.Module("naming",
	fx.Provide(
		func() requestctx.Provider { return requestctx.ContextProvider{} },
		NewChainWithDI,
	),
)

// ChainParams groups the dependencies of the naming chain.
type ChainParams struct {
	fx.In

	Registry capability.Registry `optional:"true"`
	Provider requestctx.Provider `optional:"true"`
	Config   Config              `optional:"true"`
	Logger   logger.Logger       `optional:"true"`
}

// NewChainWithDI assembles the chain from injected dependencies. Registered
// filters that fail to instantiate are logged and skipped.
func NewChainWithDI(params ChainParams) (*Chain, error) {
	log := params.Logger
	if log == nil {
		log = logger.NewNop()
	}

	filters := DefaultFilters(params.Provider, params.Config.Tags)
	if params.Registry != nil {
		filters = append(filters, registered(params.Registry, log)...)
	}
	return NewChain(filters, params.Config, log)
}

func registered(registry capability.Registry, log logger.Logger) []Filter {
	var out []Filter
	for _, h := range registry.All(capability.NamingFilter) {
		inst, err := h.Instance()
		if err == nil {
			f, ok := inst.(Filter)
			if ok {
				out = append(out, f)
				continue
			}
			err = fmt.Errorf("%w: %T is not a naming filter", capability.ErrInstantiate, inst)
		}
		log.Warn("Skipping naming filter", err, map[string]interface{}{
			"filter": h.Name(),
		})
	}
	return out
}

// Register wraps a filter as a capability registration for the
// "capabilities" value group.
func Register(name string, f Filter) capability.Registration {
	return capability.Registration{
		Name:       name,
		Advertises: []capability.Kind{capability.NamingFilter},
		Contracts:  []capability.Contract{{Capability: capability.NamingFilter}},
		New:        func() (any, error) { return f, nil },
	}
}

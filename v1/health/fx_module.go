package health

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/fxinstrument/v1/activation"
	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
)

// FXModule provides the health check *Registry and subscribes its Activator
// to the activation bus.
//
// Usage:
//
//	app := fx.New(
//	    activation.FXModule,
//	    health.FXModule,
//	    fx.Provide(NewDatabase),
//	    activation.Observe[*Database](callsite.ScopeSingleton, databaseType),
//	)
var FXModule = fx.Module("health",
	fx.Provide(
		NewRegistryWithDI,
		NewActivator,
		activation.AsListener(func(a *Activator) *Activator { return a }),
	),
)

// RegistryParams groups the dependencies of the registry.
type RegistryParams struct {
	fx.In

	Config Config        `optional:"true"`
	Logger logger.Logger `optional:"true"`
}

// NewRegistryWithDI creates the registry from injected dependencies.
func NewRegistryWithDI(params RegistryParams) *Registry {
	return NewRegistry(params.Config, params.Logger)
}

package interception

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/fxinstrument/v1/capability"
	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
)

// FXModule provides the *Resolver and *Service. It needs a capability.Registry
// (capability.FXModule) and a Config; the logger is optional.
//
// Usage:
//
//	app := fx.New(
//	    capability.FXModule,
//	    interception.FXModule,
//	    fx.Supply(interception.Config{CacheSize: 1024}),
//	    capability.Contribute(interception.Method[Audited]("audit", 100, newAuditFactory)),
//	)
var FXModule = fx.Module("interception",
	fx.Provide(
		NewResolverWithDI,
		NewServiceWithDI,
	),
)

// InterceptionParams groups the dependencies of the interception module.
type InterceptionParams struct {
	fx.In

	Registry capability.Registry
	Logger   logger.Logger `optional:"true"`
}

// NewResolverWithDI creates the resolver from injected dependencies.
func NewResolverWithDI(params InterceptionParams) *Resolver {
	return NewResolver(params.Registry, params.Logger)
}

// ServiceParams groups the dependencies of the interception service.
type ServiceParams struct {
	fx.In

	Resolver *Resolver
	Config   Config        `optional:"true"`
	Logger   logger.Logger `optional:"true"`
}

// NewServiceWithDI creates the service from injected dependencies.
func NewServiceWithDI(params ServiceParams) (*Service, error) {
	return NewService(params.Resolver, params.Config, params.Logger)
}

package capability

import "go.uber.org/fx"

// FXModule provides the *Catalog and exposes it as the Registry interface.
// Every Registration in the "capabilities" value group is added in the order
// fx delivers the group.
//
// Usage:
//
//	app := fx.New(
//	    capability.FXModule,
//	    capability.Contribute(myRegistration),
//	)
var FXModule = fx.Module("capability",
	fx.Provide(
		NewCatalogWithDI,
		func(c *Catalog) Registry { return c },
	),
)

// CatalogParams groups the dependencies needed to build the catalog.
type CatalogParams struct {
	fx.In

	Registrations []Registration `group:"capabilities"`
}

// NewCatalogWithDI builds the catalog from the "capabilities" value group.
func NewCatalogWithDI(params CatalogParams) *Catalog {
	return NewCatalog(params.Registrations...)
}

// Contribute adds registrations to the "capabilities" value group.
func Contribute(regs ...Registration) fx.Option {
	opts := make([]fx.Option, 0, len(regs))
	for _, r := range regs {
		opts = append(opts, fx.Provide(fx.Annotate(
			func() Registration { return r },
			fx.ResultTags(`group:"capabilities"`),
		)))
	}
	return fx.Options(opts...)
}

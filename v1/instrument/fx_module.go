package instrument

import (
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/fxinstrument/v1/activation"
	"github.com/Aleph-Alpha/fxinstrument/v1/capability"
	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
	"github.com/Aleph-Alpha/fxinstrument/v1/metrics"
	"github.com/Aleph-Alpha/fxinstrument/v1/naming"
)

// FXModule provides the instrument factories, the field Injector and the
// GaugeActivator. The Injector and the GaugeActivator join the activation
// listeners; the factories are added to the capability catalog once the
// graph is built.
//
// It needs capability.FXModule, naming.FXModule, metrics.FXModule and
// activation.FXModule. tracer.FXModule is optional and enables Traced.
//
// Usage:
//
//	app := fx.New(
//	    capability.FXModule,
//	    interception.FXModule,
//	    naming.FXModule,
//	    metrics.FXModule,
//	    activation.FXModule,
//	    instrument.FXModule,
//	)
var FXModule = fx.Module("instrument",
	fx.Provide(
		NewInstrumentsWithDI,
		NewInjectorWithDI,
		NewGaugeActivator,
		activation.AsListener(func(i *Injector) *Injector { return i }),
		activation.AsListener(func(g *GaugeActivator) *GaugeActivator { return g }),
	),
	fx.Invoke(RegisterFactories),
)

// InstrumentsParams groups the dependencies of the factories.
type InstrumentsParams struct {
	fx.In

	Chain          *naming.Chain
	Registry       metrics.Registry
	TracerProvider trace.TracerProvider `optional:"true"`
	Logger         logger.Logger        `optional:"true"`
}

// NewInstrumentsWithDI creates the factories from injected dependencies.
func NewInstrumentsWithDI(params InstrumentsParams) *Instruments {
	return NewInstruments(params.Chain, params.Registry, params.TracerProvider, params.Logger)
}

// InjectorParams groups the dependencies of the injector.
type InjectorParams struct {
	fx.In

	Chain    *naming.Chain
	Registry metrics.Registry
	Logger   logger.Logger `optional:"true"`
}

// NewInjectorWithDI creates the injector from injected dependencies.
func NewInjectorWithDI(params InjectorParams) *Injector {
	return NewInjector(params.Chain, params.Registry, params.Logger)
}

// RegisterFactories adds the factories to the catalog. The naming chain
// reads the same catalog, so the factories cannot be contributed through
// the value group without a dependency cycle.
func RegisterFactories(catalog *capability.Catalog, in *Instruments) {
	for _, reg := range in.Registrations() {
		catalog.Add(reg)
	}
}

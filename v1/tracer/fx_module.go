package tracer

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
)

// FXModule provides the *Tracer and its trace.TracerProvider and shuts the
// provider down when the application stops, flushing pending spans.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    tracer.FXModule,
//	    fx.Supply(tracer.Config{ServiceName: "billing"}),
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClientWithDI,
		func(t *Tracer) trace.TracerProvider { return t.Provider() },
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// TracerParams groups the dependencies of the tracer.
type TracerParams struct {
	fx.In

	Config Config        `optional:"true"`
	Logger logger.Logger `optional:"true"`
}

// NewClientWithDI creates the tracer from injected dependencies.
func NewClientWithDI(params TracerParams) (*Tracer, error) {
	return NewClient(params.Config, params.Logger)
}

// RegisterTracerLifecycle registers the shutdown hook of the tracer.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			tracer.logger.Info("Shutting down tracer", nil, nil)
			return tracer.Shutdown(ctx)
		},
	})
}

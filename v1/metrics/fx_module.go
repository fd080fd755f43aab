package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
)

// FXModule defines the Fx module for the metrics package.
// It provides the *Metrics registry, exposes it as the Registry interface and
// runs the /metrics server for the lifetime of the application.
//
// Usage:
//
//	app := fx.New(
//	    metrics.FXModule,
//	    fx.Supply(metrics.Config{
//	        Address:     ":9090",
//	        ServiceName: "billing",
//	    }),
//	)
//
// The Config is optional; without it the registry works but no server is
// started. A logger.Logger is optional and used for server lifecycle logs.
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetricsWithDI,
		func(m *Metrics) Registry { return m },
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// MetricsParams groups the dependencies of the metrics registry.
type MetricsParams struct {
	fx.In

	Config Config `optional:"true"`
}

// NewMetricsWithDI creates the registry from injected dependencies.
func NewMetricsWithDI(params MetricsParams) *Metrics {
	return NewMetrics(params.Config)
}

// LifecycleParams groups the dependencies of RegisterMetricsLifecycle.
type LifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Metrics   *Metrics
	Logger    logger.Logger `optional:"true"`
}

// RegisterMetricsLifecycle starts the Prometheus HTTP server in a background
// goroutine on start and shuts it down gracefully on stop. It does nothing
// when the server is disabled.
func RegisterMetricsLifecycle(params LifecycleParams) {
	m := params.Metrics
	if m.Server == nil {
		return
	}
	log := params.Logger
	if log == nil {
		log = logger.NewNop()
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("Starting Prometheus metrics server", nil, map[string]interface{}{
					"address": m.Server.Addr,
				})

				if err := m.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Error starting Prometheus metrics server", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Prometheus metrics server", nil, nil)
			return m.Server.Shutdown(ctx)
		},
	})
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
	"github.com/Aleph-Alpha/fxinstrument/v1/config"
	"github.com/Aleph-Alpha/fxinstrument/v1/health"
	"github.com/Aleph-Alpha/fxinstrument/v1/instrument"
	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
	"github.com/Aleph-Alpha/fxinstrument/v1/metrics"
	"github.com/Aleph-Alpha/fxinstrument/v1/requestctx"
)

// requestStats are observables of a single request, named with the route of
// the request.
type requestStats struct {
	Hits metrics.Meter `metric:"hits"`
}

var requestStatsType = callsite.Describe[requestStats](
	callsite.WithNamespace("instrumentd"),
	callsite.WithScope(callsite.ScopeRequest),
)

// RouterParams groups the dependencies of the router.
type RouterParams struct {
	fx.In

	Metrics   *metrics.Metrics
	Health    *health.Registry
	Injector  *instrument.Injector
	Heartbeat *Heartbeat
	Logger    logger.Logger
}

// NewRouter creates the service router:
//
//	GET  /healthz      health report, 503 when a check fails
//	GET  /metrics      Prometheus exposition
//	GET  /observables  names of the registered observables
//	POST /heartbeat    beat now
func NewRouter(p RouterParams) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestctx.MuxMiddleware())

	r.Handle("/healthz", p.Health.Handler()).Methods(http.MethodGet).Name("health")
	r.Handle("/metrics", p.Metrics.Handler()).Methods(http.MethodGet).Name("metrics")

	r.HandleFunc("/observables", func(w http.ResponseWriter, req *http.Request) {
		countHit(req.Context(), p.Injector, p.Logger)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(p.Metrics.Names()); err != nil {
			p.Logger.ErrorWithContext(req.Context(), "Failed to write observables", err, nil)
		}
	}).Methods(http.MethodGet).Name("observables")

	r.HandleFunc("/heartbeat", func(w http.ResponseWriter, req *http.Request) {
		countHit(req.Context(), p.Injector, p.Logger)
		if err := p.Heartbeat.Beat(req.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodPost).Name("heartbeat")

	return r
}

// countHit marks the per-route hits meter. The meter is tagged with the
// route of the request in ctx.
func countHit(ctx context.Context, in *instrument.Injector, log logger.Logger) {
	var stats requestStats
	if err := in.Inject(ctx, &stats, requestStatsType); err != nil {
		log.WarnWithContext(ctx, "Request observables not injected", err, nil)
		return
	}
	if stats.Hits != nil {
		stats.Hits.Mark(1)
	}
}

// ServerParams groups the dependencies of the router server.
type ServerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.HTTPConfig
	Router    *mux.Router
	Logger    logger.Logger
}

// RegisterServerLifecycle serves the router on the configured address for
// the lifetime of the application. An empty address disables it.
func RegisterServerLifecycle(p ServerParams) {
	if p.Config.Address == "" {
		return
	}
	srv := &http.Server{
		Addr:              p.Config.Address,
		Handler:           p.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			p.Logger.Info("Starting HTTP server", nil, map[string]interface{}{"address": ln.Addr().String()})
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("HTTP server failed", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Logger.Info("Stopping HTTP server", nil, nil)
			return srv.Shutdown(ctx)
		},
	})
}

package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
)

// Tracer wraps the OpenTelemetry TracerProvider with helpers for creating
// spans, recording errors and propagating trace context.
//
// The Tracer is safe for concurrent use.
type Tracer struct {
	provider *trace.TracerProvider
	logger   logger.Logger
}

// NewClient creates the tracer provider, installs it as the global otel
// provider and configures W3C trace context propagation.
//
// Extra options are appended to the provider options, which lets tests
// attach a span recorder:
//
//	recorder := tracetest.NewSpanRecorder()
//	t, err := tracer.NewClient(cfg, log, trace.WithSpanProcessor(recorder))
//
// Example:
//
//	t, err := tracer.NewClient(tracer.Config{
//	    ServiceName:  "billing",
//	    AppEnv:       "production",
//	    EnableExport: true,
//	}, log)
//	ctx, span := t.StartSpan(ctx, "process-request")
//	defer span.End()
func NewClient(cfg Config, log logger.Logger, opts ...trace.TracerProviderOption) (*Tracer, error) {
	if log == nil {
		log = logger.NewNop()
	}

	var options []trace.TracerProviderOption
	if cfg.EnableExport {
		var clientOpts []otlptracehttp.Option
		if cfg.Endpoint != "" {
			clientOpts = append(clientOpts, otlptracehttp.WithEndpoint(cfg.Endpoint))
		}
		if cfg.Insecure {
			clientOpts = append(clientOpts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient(clientOpts...))
		if err != nil {
			return nil, fmt.Errorf("tracer: cannot initiate exporter: %w", err)
		}
		options = append(options, trace.WithBatcher(exporter))
	}

	options = append(options, trace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))
	options = append(options, opts...)

	tp := trace.NewTracerProvider(options...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagator())

	log.Debug("Tracer initialized", nil, map[string]interface{}{
		"service": cfg.ServiceName,
		"export":  cfg.EnableExport,
	})
	return &Tracer{provider: tp, logger: log}, nil
}

func propagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
}

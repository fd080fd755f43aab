// Package tracer configures OpenTelemetry tracing: a TracerProvider with the
// service resource attributes, optional OTLP HTTP export and W3C trace
// context propagation.
//
// The provider is also exposed as a trace.TracerProvider so that the
// instrument package can open spans around Traced methods.
//
// # Usage
//
//	t, err := tracer.NewClient(tracer.Config{
//		ServiceName:  "billing",
//		AppEnv:       "production",
//		EnableExport: true,
//		Endpoint:     "otel-collector:4318",
//	}, log)
//	if err != nil {
//		return err
//	}
//	defer t.Shutdown(context.Background())
//
//	ctx, span := t.StartSpan(ctx, "process-request")
//	defer span.End()
//
// # Propagation
//
// GetCarrier and SetCarrierOnContext move the trace context across process
// boundaries as a map of headers:
//
//	headers := t.GetCarrier(ctx)
//	// ... on the receiving side
//	ctx = t.SetCarrierOnContext(context.Background(), headers)
package tracer

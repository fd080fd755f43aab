// Package logger provides the structured logging used by every fxinstrument package.
//
// The package wraps Uber's zap behind a small, stable API: each method takes a
// message, an optional error and any number of field maps. The same contract is
// declared as the Logger interface so that resolution, naming and activation
// code can be exercised in tests with a mock or with NewNop.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - Logger interface: the contract consumed by the other packages
//   - LoggerClient struct: the zap-backed implementation
//   - NewLoggerClient constructor: returns *LoggerClient
//   - FXModule: provides both *LoggerClient and Logger
//
// # Direct Usage (Without FX)
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:         logger.Info,
//		ServiceName:   "billing",
//		EnableTracing: true,
//	})
//
//	log.Warn("Interceptor factory skipped", err, map[string]interface{}{
//		"factory": "counted",
//	})
//
// # Tracing Integration
//
// With EnableTracing, the *WithContext methods add trace_id and span_id taken
// from the OpenTelemetry span carried by the context.
//
// # Configuration
//
//	ZAP_LOGGER_LEVEL=debug          # Log level (debug, info, warning, error)
//	LOGGER_SERVICE_NAME=billing     # Value of the "service" field
//	LOGGER_ENABLE_TRACING=true      # Add trace and span IDs to *WithContext entries
//
// # Thread Safety
//
// All methods are safe for concurrent use by multiple goroutines.
package logger

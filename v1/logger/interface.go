package logger

import "context"

// Logger is the logging contract consumed by the fxinstrument packages.
//
// Packages declare the methods they need against this interface instead of the
// concrete *LoggerClient, so tests can pass a mock or a no-op logger.
//
//go:generate mockgen -source=interface.go -destination=mock_logger.go -package=logger
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})

	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

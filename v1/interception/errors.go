package interception

import "errors"

var (
	// ErrProceedTwice is returned when an interceptor calls next more than once.
	ErrProceedTwice = errors.New("interception: interceptor proceeded more than once")

	// ErrNotProvider is returned when a catalog instance registered as an
	// interceptor factory does not implement Provider.
	ErrNotProvider = errors.New("interception: implementation is not an interceptor provider")

	// ErrFactoryPanic is returned when a factory panics while providing an interceptor.
	ErrFactoryPanic = errors.New("interception: factory panicked")
)

package health

import "context"

// Check marks a component type as a health check. The component must
// implement Checker. An empty Name uses the qualified type name.
type Check struct {
	Name string
}

// Checker reports the health of one dependency. A nil error means healthy.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

// Check implements Checker.
func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

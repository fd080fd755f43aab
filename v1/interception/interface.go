package interception

import (
	"context"

	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
	"github.com/Aleph-Alpha/fxinstrument/v1/capability"
)

// Invocation is one call of an intercepted method or constructor.
type Invocation struct {
	// Site is the intercepted call site.
	Site *callsite.Site
	// Target is the receiver of a method call; nil for constructors.
	Target any
	// Args are the call arguments.
	Args []any
}

// Handler performs the invocation, or the rest of the chain.
type Handler func(ctx context.Context, inv *Invocation) (any, error)

// Interceptor wraps one invocation. It must call next exactly once and
// propagate the returned value and error.
type Interceptor func(ctx context.Context, inv *Invocation, next Handler) (any, error)

// MethodFactory provides interceptors for method sites carrying annotation A.
// Returning nil declines the site.
type MethodFactory[A any] interface {
	ProvideMethod(site *callsite.Site, annotation A) Interceptor
}

// ConstructorFactory provides interceptors for constructor sites carrying annotation A.
// Returning nil declines the site.
type ConstructorFactory[A any] interface {
	ProvideConstructor(site *callsite.Site, annotation A) Interceptor
}

// MethodFactoryFunc adapts a function to MethodFactory.
type MethodFactoryFunc[A any] func(site *callsite.Site, annotation A) Interceptor

// ProvideMethod calls f.
func (f MethodFactoryFunc[A]) ProvideMethod(site *callsite.Site, annotation A) Interceptor {
	return f(site, annotation)
}

// ConstructorFactoryFunc adapts a function to ConstructorFactory.
type ConstructorFactoryFunc[A any] func(site *callsite.Site, annotation A) Interceptor

// ProvideConstructor calls f.
func (f ConstructorFactoryFunc[A]) ProvideConstructor(site *callsite.Site, annotation A) Interceptor {
	return f(site, annotation)
}

// Provider is the type-erased form under which factories live in the catalog.
type Provider interface {
	Provide(k capability.Kind, site *callsite.Site, annotation any) Interceptor
}

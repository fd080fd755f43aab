package interception

import (
	"reflect"

	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
	"github.com/Aleph-Alpha/fxinstrument/v1/capability"
)

// Method registers a method interceptor factory bound to annotation A.
func Method[A any](name string, rank int, newFactory func() (MethodFactory[A], error)) capability.Registration {
	return capability.Registration{
		Name:       name,
		Rank:       rank,
		Advertises: []capability.Kind{capability.MethodInterceptor},
		Contracts:  []capability.Contract{{Capability: capability.MethodInterceptor, Argument: reflect.TypeFor[A]()}},
		New: func() (any, error) {
			f, err := newFactory()
			if err != nil {
				return nil, err
			}
			return typedProvider[A]{method: f}, nil
		},
	}
}

// Constructor registers a constructor interceptor factory bound to annotation A.
func Constructor[A any](name string, rank int, newFactory func() (ConstructorFactory[A], error)) capability.Registration {
	return capability.Registration{
		Name:       name,
		Rank:       rank,
		Advertises: []capability.Kind{capability.ConstructorInterceptor},
		Contracts:  []capability.Contract{{Capability: capability.ConstructorInterceptor, Argument: reflect.TypeFor[A]()}},
		New: func() (any, error) {
			f, err := newFactory()
			if err != nil {
				return nil, err
			}
			return typedProvider[A]{constructor: f}, nil
		},
	}
}

// Factory is implemented by factories that intercept both methods and constructors.
type Factory[A any] interface {
	MethodFactory[A]
	ConstructorFactory[A]
}

// MethodAndConstructor registers one factory for both capabilities. The
// catalog constructs it once and shares the instance.
func MethodAndConstructor[A any](name string, rank int, newFactory func() (Factory[A], error)) capability.Registration {
	arg := reflect.TypeFor[A]()
	return capability.Registration{
		Name:       name,
		Rank:       rank,
		Advertises: []capability.Kind{capability.MethodInterceptor, capability.ConstructorInterceptor},
		Contracts: []capability.Contract{
			{Capability: capability.MethodInterceptor, Argument: arg},
			{Capability: capability.ConstructorInterceptor, Argument: arg},
		},
		New: func() (any, error) {
			f, err := newFactory()
			if err != nil {
				return nil, err
			}
			return typedProvider[A]{method: f, constructor: f}, nil
		},
	}
}

type typedProvider[A any] struct {
	method      MethodFactory[A]
	constructor ConstructorFactory[A]
}

func (p typedProvider[A]) Provide(k capability.Kind, site *callsite.Site, annotation any) Interceptor {
	a, ok := annotation.(A)
	if !ok {
		return nil
	}
	switch {
	case k == capability.MethodInterceptor && p.method != nil:
		return p.method.ProvideMethod(site, a)
	case k == capability.ConstructorInterceptor && p.constructor != nil:
		return p.constructor.ProvideConstructor(site, a)
	default:
		return nil
	}
}

package capability

import "reflect"

// Kind identifies a capability, the Go counterpart of a generic contract type.
type Kind string

const (
	// MethodInterceptor is implemented by method interceptor factories.
	MethodInterceptor Kind = "method-interceptor"
	// ConstructorInterceptor is implemented by constructor interceptor factories.
	ConstructorInterceptor Kind = "constructor-interceptor"
	// NamingFilter is implemented by metric naming filters.
	NamingFilter Kind = "naming-filter"
)

// Contract is one capability advertised by an implementation together with
// its single type argument, the annotation type the implementation is bound to.
type Contract struct {
	Capability Kind
	Argument   reflect.Type
}

// Metadata is the fully reified description of an implementation.
type Metadata struct {
	Name      string
	Rank      int
	Contracts []Contract
}

// ContractFor returns the contract whose capability is exactly k.
func (m Metadata) ContractFor(k Kind) (Contract, bool) {
	for _, c := range m.Contracts {
		if c.Capability == k {
			return c, true
		}
	}
	return Contract{}, false
}

// Handle refers to one registered implementation.
type Handle interface {
	// Name returns the registration name without reifying.
	Name() string
	// Reify returns the complete metadata, computing it on first call.
	Reify() (Metadata, error)
	// Instance returns the implementation, constructing it on first call.
	Instance() (any, error)
}

// Registry enumerates registered implementations of a capability.
type Registry interface {
	All(k Kind) []Handle
}

package callsite

import (
	"reflect"
	"strconv"
)

// Kind identifies the element a Site points at.
type Kind int

const (
	// KindMethod is a method of a component.
	KindMethod Kind = iota
	// KindConstructor is the constructor of a component.
	KindConstructor
	// KindField is an injectable field of a component.
	KindField
	// KindParameter is a constructor parameter of a component.
	KindParameter
	// KindType is the component type itself.
	KindType
)

func (k Kind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindConstructor:
		return "constructor"
	case KindField:
		return "field"
	case KindParameter:
		return "parameter"
	case KindType:
		return "type"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Scope is the managed lifetime of a component.
type Scope string

const (
	// ScopeSingleton components live as long as the fx application.
	ScopeSingleton Scope = "singleton"
	// ScopeRequest components live for one request.
	ScopeRequest Scope = "request"
	// ScopePerLookup components are created on every lookup.
	ScopePerLookup Scope = "per-lookup"
)

// OutlivesRequest reports whether a component of this scope lives longer than
// a single request. Request-derived data cached in such a component goes stale.
func (s Scope) OutlivesRequest() bool {
	return s == ScopeSingleton
}

// Annotations is an ordered set of annotation values.
type Annotations []any

// Find returns the first annotation whose dynamic type is t.
func (a Annotations) Find(t reflect.Type) (any, bool) {
	for _, v := range a {
		if v != nil && reflect.TypeOf(v) == t {
			return v, true
		}
	}
	return nil, false
}

// IsAnnotationType reports whether t can key an annotation lookup.
// Interface types never match a dynamic type and are rejected.
func IsAnnotationType(t reflect.Type) bool {
	return t != nil && t.Kind() != reflect.Interface
}

// Method describes one method of a component type and the annotations on it.
type Method struct {
	Name        string
	Annotations Annotations
}

// Type describes a component type managed by the container.
//
// A Type is built once and must not be mutated after it is shared.
type Type struct {
	// Namespace is the Go package name of the component.
	Namespace string
	// Name is the type name without pointer markers.
	Name string
	// Scope is the lifetime the container gives instances of this type.
	Scope Scope
	// Annotations are the type-level annotations.
	Annotations Annotations
	// Methods lists the annotated methods declared by this type.
	Methods []Method
	// Super is an embedded type whose annotations and methods are inherited.
	Super *Type
}

// QualifiedName returns Namespace.Name, or just Name without a namespace.
func (t *Type) QualifiedName() string {
	if t == nil {
		return ""
	}
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// FindAnnotation looks for an annotation of type rt on t and then on its super chain.
func (t *Type) FindAnnotation(rt reflect.Type) (any, bool) {
	for cur := t; cur != nil; cur = cur.Super {
		if v, ok := cur.Annotations.Find(rt); ok {
			return v, true
		}
	}
	return nil, false
}

// Method returns the first method named name, searching the super chain.
func (t *Type) Method(name string) (Method, bool) {
	for cur := t; cur != nil; cur = cur.Super {
		for _, m := range cur.Methods {
			if m.Name == name {
				return m, true
			}
		}
	}
	return Method{}, false
}

// Chain returns t followed by its super types, most derived first.
func (t *Type) Chain() []*Type {
	var chain []*Type
	for cur := t; cur != nil; cur = cur.Super {
		chain = append(chain, cur)
	}
	return chain
}

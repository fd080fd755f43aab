package callsite

import (
	"path"
	"reflect"
)

// TypeOption customizes a Type built by Describe.
type TypeOption func(*Type)

// WithScope sets the component scope.
func WithScope(scope Scope) TypeOption {
	return func(t *Type) { t.Scope = scope }
}

// WithAnnotations appends type-level annotations.
func WithAnnotations(annotations ...any) TypeOption {
	return func(t *Type) { t.Annotations = append(t.Annotations, annotations...) }
}

// WithMethod declares an annotated method.
func WithMethod(name string, annotations ...any) TypeOption {
	return func(t *Type) {
		t.Methods = append(t.Methods, Method{Name: name, Annotations: annotations})
	}
}

// WithSuper sets the embedded type whose annotations and methods are inherited.
func WithSuper(super *Type) TypeOption {
	return func(t *Type) { t.Super = super }
}

// WithNamespace overrides the namespace derived from the Go package.
func WithNamespace(namespace string) TypeOption {
	return func(t *Type) { t.Namespace = namespace }
}

// Describe builds the Type of T. Namespace and Name come from T's package
// name and type name (pointers are dereferenced); the scope defaults to
// ScopeSingleton, the fx default.
//
// Example:
//
//	var widgetType = callsite.Describe[*Widget](callsite.WithMethod("Size", instrument.Gauge{}))
func Describe[T any](opts ...TypeOption) *Type {
	return DescribeType(reflect.TypeFor[T](), opts...)
}

// DescribeType is Describe for a reflected type.
func DescribeType(rt reflect.Type, opts ...TypeOption) *Type {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	t := &Type{
		Namespace: path.Base(rt.PkgPath()),
		Name:      rt.Name(),
		Scope:     ScopeSingleton,
	}
	if rt.PkgPath() == "" {
		t.Namespace = ""
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

package callsite

import (
	"fmt"
	"reflect"
	"strings"
)

// Site is one element of a component type that metadata is read from.
type Site struct {
	// Kind is the element kind.
	Kind Kind
	// Declaring is the component type declaring the element. It may be nil
	// for programmatic sites that belong to no component.
	Declaring *Type
	// Member is the method, field or parameter name. Constructor and type
	// sites leave it empty.
	Member string
	// Annotations are the annotations on the element itself.
	Annotations Annotations
}

// MethodOf returns the site of the named method of t, carrying the method's
// annotations when t declares it.
func MethodOf(t *Type, name string) *Site {
	m, _ := t.Method(name)
	return &Site{Kind: KindMethod, Declaring: t, Member: name, Annotations: m.Annotations}
}

// ConstructorOf returns the constructor site of t.
func ConstructorOf(t *Type, annotations ...any) *Site {
	return &Site{Kind: KindConstructor, Declaring: t, Annotations: annotations}
}

// FieldOf returns the site of the named field of t.
func FieldOf(t *Type, name string, annotations ...any) *Site {
	return &Site{Kind: KindField, Declaring: t, Member: name, Annotations: annotations}
}

// ParameterOf returns the site of a constructor parameter of t.
func ParameterOf(t *Type, name string, annotations ...any) *Site {
	return &Site{Kind: KindParameter, Declaring: t, Member: name, Annotations: annotations}
}

// TypeOf returns the site of t itself.
func TypeOf(t *Type) *Site {
	return &Site{Kind: KindType, Declaring: t}
}

// Namespace returns the declaring namespace, or "".
func (s *Site) Namespace() string {
	if s == nil || s.Declaring == nil {
		return ""
	}
	return s.Declaring.Namespace
}

// TypeName returns the declaring type name, or "".
func (s *Site) TypeName() string {
	if s == nil || s.Declaring == nil {
		return ""
	}
	return s.Declaring.Name
}

// Scope returns the scope of the declaring component, or "" when unknown.
func (s *Site) Scope() Scope {
	if s == nil || s.Declaring == nil {
		return ""
	}
	return s.Declaring.Scope
}

// ID returns a stable identifier for the site, e.g. "billing.Invoices#method:Create".
// Two sites with the same declaring type, kind and member share an ID.
func (s *Site) ID() string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(s.Declaring.QualifiedName())
	b.WriteByte('#')
	b.WriteString(s.Kind.String())
	if s.Member != "" {
		b.WriteByte(':')
		b.WriteString(s.Member)
	}
	return b.String()
}

// Key identifies the site together with its metadata: the ID, the element
// annotations and the identity of the declaring descriptor. Sites that share
// an ID but differ in annotations get different keys.
func (s *Site) Key() string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("%s|%p|%#v", s.ID(), s.Declaring, []any(s.Annotations))
}

// Find returns the annotation of type rt on the element, falling back to the
// declaring type.
func (s *Site) Find(rt reflect.Type) (any, bool) {
	if s == nil {
		return nil, false
	}
	if v, ok := s.Annotations.Find(rt); ok {
		return v, true
	}
	if s.Declaring != nil {
		return s.Declaring.FindAnnotation(rt)
	}
	return nil, false
}

// Has reports whether Find would succeed.
func (s *Site) Has(rt reflect.Type) bool {
	_, ok := s.Find(rt)
	return ok
}

func (s *Site) String() string {
	return s.ID()
}

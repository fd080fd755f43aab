package callsite

import (
	"fmt"
	"reflect"
)

// Lookup returns the annotation of type A on the site, falling back to the
// declaring type.
func Lookup[A any](s *Site) (A, bool) {
	var zero A
	v, ok := s.Find(reflect.TypeFor[A]())
	if !ok {
		return zero, false
	}
	a, ok := v.(A)
	return a, ok
}

// LookupType returns the annotation of type A on t or its super chain.
func LookupType[A any](t *Type) (A, bool) {
	var zero A
	if t == nil {
		return zero, false
	}
	v, ok := t.FindAnnotation(reflect.TypeFor[A]())
	if !ok {
		return zero, false
	}
	a, ok := v.(A)
	return a, ok
}

// MethodValue returns the named exported method of instance bound to it.
func MethodValue(instance any, name string) (reflect.Value, error) {
	if instance == nil {
		return reflect.Value{}, ErrNilInstance
	}
	v := reflect.ValueOf(instance)
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return reflect.Value{}, ErrNilInstance
	}
	m := v.MethodByName(name)
	if !m.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %s on %T", ErrNoSuchMethod, name, instance)
	}
	return m, nil
}

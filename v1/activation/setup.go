package activation

import (
	"errors"
	"reflect"
	"sync"

	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
)

// tracker holds the per-instance state of an activator. An instance moves
// from unobserved to activated on claim and out again on release; released
// instances are forgotten. Instances that cannot be map keys are never
// tracked, so they are activated on every event and never deactivated.
type tracker[S any] struct {
	mu     sync.Mutex
	active map[any]S
}

func (t *tracker[S]) claim(instance any, s S) bool {
	if !trackable(instance) {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.active[instance]; ok {
		return false
	}
	if t.active == nil {
		t.active = map[any]S{}
	}
	t.active[instance] = s
	return true
}

func (t *tracker[S]) set(instance any, s S) {
	if !trackable(instance) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active[instance] = s
}

func (t *tracker[S]) release(instance any) (S, bool) {
	var zero S
	if !trackable(instance) {
		return zero, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.active[instance]
	if ok {
		delete(t.active, instance)
	}
	return s, ok
}

func (t *tracker[S]) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}

func trackable(v any) bool {
	return v != nil && reflect.ValueOf(v).Comparable()
}

func inScope(want, got callsite.Scope) bool {
	return want == "" || want == got
}

// ClassActivator activates instances whose type, or a super type, carries
// annotation A.
type ClassActivator[A any] struct {
	scope      callsite.Scope
	annotation reflect.Type
	activate   func(ClassTarget[A]) error
	deactivate func(ClassTarget[A]) error
	state      tracker[ClassTarget[A]]
}

// NewClassActivator creates an activator listening to instances of scope,
// or of any scope when scope is empty. deactivate may be nil.
func NewClassActivator[A any](scope callsite.Scope, activate, deactivate func(ClassTarget[A]) error) (*ClassActivator[A], error) {
	rt := reflect.TypeFor[A]()
	if !callsite.IsAnnotationType(rt) {
		return nil, ErrNotAnnotation
	}
	return &ClassActivator[A]{scope: scope, annotation: rt, activate: activate, deactivate: deactivate}, nil
}

// OnEvent implements Listener. Activation happens at most once per tracked
// instance and deactivation only after a successful activation.
func (a *ClassActivator[A]) OnEvent(ev Event) error {
	if !inScope(a.scope, ev.Scope) || ev.Instance == nil {
		return nil
	}

	switch ev.Type {
	case PostConstruction:
		v, ok := ev.Descriptor.FindAnnotation(a.annotation)
		if !ok {
			return nil
		}
		target := ClassTarget[A]{Descriptor: ev.Descriptor, Instance: ev.Instance, Annotation: v.(A)}
		if !a.state.claim(ev.Instance, target) {
			return nil
		}
		if err := a.activate(target); err != nil {
			a.state.release(ev.Instance)
			return err
		}
	case PreDestruction:
		target, ok := a.state.release(ev.Instance)
		if ok && a.deactivate != nil {
			return a.deactivate(target)
		}
	}
	return nil
}

// Active returns the number of activated instances.
func (a *ClassActivator[A]) Active() int {
	return a.state.size()
}

// MethodActivator activates every method carrying annotation A on instances
// whose type, or a super type, declares it. A method redeclared by a more
// derived type hides the super type's declaration.
type MethodActivator[A any] struct {
	scope      callsite.Scope
	annotation reflect.Type
	activate   func(MethodTarget[A]) error
	deactivate func(MethodTarget[A]) error
	state      tracker[[]MethodTarget[A]]
	// index caches the matching methods per descriptor.
	index sync.Map
}

type methodMatch[A any] struct {
	method     callsite.Method
	annotation A
}

// NewMethodActivator creates an activator listening to instances of scope,
// or of any scope when scope is empty. deactivate may be nil.
func NewMethodActivator[A any](scope callsite.Scope, activate, deactivate func(MethodTarget[A]) error) (*MethodActivator[A], error) {
	rt := reflect.TypeFor[A]()
	if !callsite.IsAnnotationType(rt) {
		return nil, ErrNotAnnotation
	}
	return &MethodActivator[A]{scope: scope, annotation: rt, activate: activate, deactivate: deactivate}, nil
}

// OnEvent implements Listener. Every matching method is activated once per
// instance; a failing method does not prevent the others and is not
// deactivated later.
func (a *MethodActivator[A]) OnEvent(ev Event) error {
	if !inScope(a.scope, ev.Scope) || ev.Instance == nil {
		return nil
	}

	switch ev.Type {
	case PostConstruction:
		matches := a.methods(ev.Descriptor)
		if len(matches) == 0 || !a.state.claim(ev.Instance, nil) {
			return nil
		}

		var errs []error
		activated := make([]MethodTarget[A], 0, len(matches))
		for _, m := range matches {
			target := MethodTarget[A]{Descriptor: ev.Descriptor, Instance: ev.Instance, Method: m.method, Annotation: m.annotation}
			if err := a.activate(target); err != nil {
				errs = append(errs, err)
				continue
			}
			activated = append(activated, target)
		}
		if len(activated) == 0 {
			a.state.release(ev.Instance)
		} else {
			a.state.set(ev.Instance, activated)
		}
		return errors.Join(errs...)
	case PreDestruction:
		targets, ok := a.state.release(ev.Instance)
		if !ok || a.deactivate == nil {
			return nil
		}
		var errs []error
		for _, target := range targets {
			if err := a.deactivate(target); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	return nil
}

// Active returns the number of activated instances.
func (a *MethodActivator[A]) Active() int {
	return a.state.size()
}

func (a *MethodActivator[A]) methods(desc *callsite.Type) []methodMatch[A] {
	if desc == nil {
		return nil
	}
	if cached, ok := a.index.Load(desc); ok {
		return cached.([]methodMatch[A])
	}

	var matches []methodMatch[A]
	seen := map[string]bool{}
	for _, t := range desc.Chain() {
		for _, m := range t.Methods {
			if seen[m.Name] {
				continue
			}
			seen[m.Name] = true
			if v, ok := m.Annotations.Find(a.annotation); ok {
				matches = append(matches, methodMatch[A]{method: m, annotation: v.(A)})
			}
		}
	}

	actual, _ := a.index.LoadOrStore(desc, matches)
	return actual.([]methodMatch[A])
}

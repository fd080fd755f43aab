package activation

import (
	"strconv"

	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
)

// EventType is a lifecycle transition of a managed instance.
type EventType int

const (
	// PostConstruction is published once an instance is fully built.
	PostConstruction EventType = iota
	// PreDestruction is published before an instance is released.
	PreDestruction
)

func (t EventType) String() string {
	switch t {
	case PostConstruction:
		return "post-construction"
	case PreDestruction:
		return "pre-destruction"
	default:
		return "event(" + strconv.Itoa(int(t)) + ")"
	}
}

// Event is one lifecycle notification.
type Event struct {
	Type EventType
	// Scope is the managed lifetime of the instance.
	Scope callsite.Scope
	// Instance is the component instance.
	Instance any
	// Descriptor describes the instance type and its annotations.
	Descriptor *callsite.Type
}

// Listener receives lifecycle events. Returned errors are logged by the Bus.
type Listener interface {
	OnEvent(ev Event) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ev Event) error

// OnEvent implements Listener.
func (f ListenerFunc) OnEvent(ev Event) error { return f(ev) }

// ClassTarget is passed to class activator callbacks.
type ClassTarget[A any] struct {
	Descriptor *callsite.Type
	Instance   any
	Annotation A
}

// MethodTarget is passed to method activator callbacks, once per matching
// method.
type MethodTarget[A any] struct {
	Descriptor *callsite.Type
	Instance   any
	Method     callsite.Method
	Annotation A
}

package schedule

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/Aleph-Alpha/fxinstrument/v1/activation"
	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
)

// Activator schedules every Scheduled method of constructed singletons and
// removes the jobs on destruction.
type Activator struct {
	*activation.MethodActivator[Scheduled]

	scheduler *Scheduler

	mu      sync.Mutex
	entries map[entryKey]cron.EntryID
}

type entryKey struct {
	instance any
	method   string
}

// NewActivator creates the activator.
func NewActivator(scheduler *Scheduler) (*Activator, error) {
	a := &Activator{scheduler: scheduler, entries: make(map[entryKey]cron.EntryID)}
	ma, err := activation.NewMethodActivator(callsite.ScopeSingleton, a.activate, a.deactivate)
	if err != nil {
		return nil, err
	}
	a.MethodActivator = ma
	return a, nil
}

func (a *Activator) activate(t activation.MethodTarget[Scheduled]) error {
	name := jobName(t)
	mv, err := callsite.MethodValue(t.Instance, t.Method.Name)
	if err != nil {
		return err
	}
	fn, err := jobFunc(mv)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	id, err := a.scheduler.AddFunc(t.Annotation.Spec, name, fn)
	if err != nil {
		return err
	}
	if reflect.ValueOf(t.Instance).Comparable() {
		a.mu.Lock()
		a.entries[entryKey{t.Instance, t.Method.Name}] = id
		a.mu.Unlock()
	}
	return nil
}

func (a *Activator) deactivate(t activation.MethodTarget[Scheduled]) error {
	key := entryKey{t.Instance, t.Method.Name}
	a.mu.Lock()
	id, ok := a.entries[key]
	delete(a.entries, key)
	a.mu.Unlock()
	if ok {
		a.scheduler.Remove(id)
	}
	return nil
}

func jobName(t activation.MethodTarget[Scheduled]) string {
	if t.Annotation.Name != "" {
		return t.Annotation.Name
	}
	return t.Descriptor.QualifiedName() + "." + t.Method.Name
}

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// jobFunc adapts func(), func() error, func(context.Context) and
// func(context.Context) error.
func jobFunc(mv reflect.Value) (func(context.Context) error, error) {
	mt := mv.Type()
	withCtx := mt.NumIn() == 1 && mt.In(0) == contextType
	if mt.NumIn() > 1 || (mt.NumIn() == 1 && !withCtx) {
		return nil, ErrJobSignature
	}
	withErr := mt.NumOut() == 1 && mt.Out(0) == errorType
	if mt.NumOut() > 1 || (mt.NumOut() == 1 && !withErr) {
		return nil, ErrJobSignature
	}

	return func(ctx context.Context) error {
		var in []reflect.Value
		if withCtx {
			in = []reflect.Value{reflect.ValueOf(&ctx).Elem()}
		}
		out := mv.Call(in)
		if withErr && !out[0].IsNil() {
			return out[0].Interface().(error)
		}
		return nil
	}, nil
}

package health

import (
	"fmt"

	"github.com/Aleph-Alpha/fxinstrument/v1/activation"
	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
)

// Activator registers singletons annotated with Check in the registry and
// removes them again on destruction.
type Activator struct {
	*activation.ClassActivator[Check]

	registry *Registry
}

// NewActivator creates the activator.
func NewActivator(registry *Registry) (*Activator, error) {
	a := &Activator{registry: registry}
	ca, err := activation.NewClassActivator(callsite.ScopeSingleton, a.activate, a.deactivate)
	if err != nil {
		return nil, err
	}
	a.ClassActivator = ca
	return a, nil
}

func (a *Activator) activate(t activation.ClassTarget[Check]) error {
	c, ok := t.Instance.(Checker)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotChecker, t.Instance)
	}
	return a.registry.Register(checkName(t), c)
}

func (a *Activator) deactivate(t activation.ClassTarget[Check]) error {
	a.registry.Unregister(checkName(t))
	return nil
}

func checkName(t activation.ClassTarget[Check]) string {
	if t.Annotation.Name != "" {
		return t.Annotation.Name
	}
	return t.Descriptor.QualifiedName()
}

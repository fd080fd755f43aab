package activation

import (
	"fmt"
	"sync"

	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
)

// Bus delivers lifecycle events to its listeners, synchronously and in
// subscription order. A failing or panicking listener is logged and does
// not stop delivery to the others.
type Bus struct {
	mu        sync.RWMutex
	listeners []*subscription
	log       logger.Logger
}

type subscription struct {
	l Listener
}

// NewBus creates an empty bus.
func NewBus(log logger.Logger) *Bus {
	if log == nil {
		log = logger.NewNop()
	}
	return &Bus{log: log}
}

// Subscribe adds l and returns a function removing it again.
func (b *Bus) Subscribe(l Listener) (unsubscribe func()) {
	s := &subscription{l: l}
	b.mu.Lock()
	b.listeners = append(b.listeners, s)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, cur := range b.listeners {
			if cur == s {
				b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers ev to every listener subscribed at the time of the call.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	listeners := append([]*subscription(nil), b.listeners...)
	b.mu.RUnlock()

	for _, s := range listeners {
		if err := deliver(s.l, ev); err != nil {
			b.log.Error("Lifecycle listener failed", err, map[string]interface{}{
				"event":    ev.Type.String(),
				"scope":    string(ev.Scope),
				"type":     ev.Descriptor.QualifiedName(),
				"listener": fmt.Sprintf("%T", s.l),
			})
		}
	}
}

func deliver(l Listener, ev Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrListenerPanic, rec)
		}
	}()
	return l.OnEvent(ev)
}

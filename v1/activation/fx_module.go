package activation

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
)

// ListenersGroup is the value group the Bus subscribes from.
const ListenersGroup = "activation_listeners"

// FXModule provides the *Bus with every Listener of the
// "activation_listeners" value group subscribed.
//
// Usage:
//
//	app := fx.New(
//	    activation.FXModule,
//	    fx.Provide(activation.AsListener(health.NewActivator)),
//	    fx.Provide(NewInvoices),
//	    activation.Observe[*Invoices](callsite.ScopeSingleton, invoicesType),
//	)
var FXModule = fx.Module("activation",
	fx.Provide(NewBusWithDI),
)

// BusParams groups the dependencies of the bus.
type BusParams struct {
	fx.In

	Listeners []Listener    `group:"activation_listeners"`
	Logger    logger.Logger `optional:"true"`
}

// NewBusWithDI creates the bus and subscribes the grouped listeners, so that
// they are in place before any observed component is built.
func NewBusWithDI(params BusParams) *Bus {
	bus := NewBus(params.Logger)
	for _, l := range params.Listeners {
		if l != nil {
			bus.Subscribe(l)
		}
	}
	return bus
}

// AsListener annotates a constructor so that its result joins the listeners
// of the bus.
func AsListener(constructor any) any {
	return fx.Annotate(
		constructor,
		fx.As(new(Listener)),
		fx.ResultTags(`group:"activation_listeners"`),
	)
}

// Observe publishes the lifecycle of T: PostConstruction once fx has built
// it, PreDestruction when the application stops.
func Observe[T any](scope callsite.Scope, desc *callsite.Type) fx.Option {
	return fx.Decorate(func(lc fx.Lifecycle, bus *Bus, v T) T {
		bus.Publish(Event{Type: PostConstruction, Scope: scope, Instance: v, Descriptor: desc})
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				bus.Publish(Event{Type: PreDestruction, Scope: scope, Instance: v, Descriptor: desc})
				return nil
			},
		})
		return v
	})
}

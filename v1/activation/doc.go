// Package activation reacts to component lifecycle transitions.
//
// A Bus delivers PostConstruction and PreDestruction events to listeners.
// ClassActivator and MethodActivator are listeners that call back when the
// constructed component carries an annotation, on its type or on its
// methods, and call back again on destruction. They track each instance:
//
//	unobserved → activated → forgotten
//
// so activation happens at most once per instance, and deactivation only for
// instances that were activated.
//
// With fx, Observe decorates a component so that its construction and the
// application stop are published on the bus:
//
//	fx.New(
//	    activation.FXModule,
//	    fx.Provide(activation.AsListener(schedule.NewActivator)),
//	    fx.Provide(NewReports),
//	    activation.Observe[*Reports](callsite.ScopeSingleton, reportsType),
//	    fx.Invoke(func(*Reports) {}),
//	)
package activation

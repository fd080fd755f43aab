// Package health keeps named health checks and reports on them.
//
// Checks are registered directly with Registry.Register or, for components
// built by fx, by annotating the component type with Check:
//
//	var databaseType = callsite.Describe[*Database](callsite.WithAnnotations(health.Check{Name: "database"}))
//
//	fx.New(
//	    activation.FXModule,
//	    health.FXModule,
//	    fx.Provide(NewDatabase),
//	    activation.Observe[*Database](callsite.ScopeSingleton, databaseType),
//	)
//
// The Activator registers the component when it is built and removes it
// when the application stops. Registry.Handler serves the report as JSON.
package health

// Package interception decides which interceptors wrap a method or constructor
// call and runs the resulting chain.
//
// Interceptor factories are registered in the capability catalog with an
// explicit annotation type. For a call site, the Resolver walks the
// factories in rank order, looks up each factory's annotation on the site
// (member first, then the declaring type) and asks the factory for an
// interceptor. The Service caches the result per site so the resolution runs
// once, the first time a site is intercepted.
//
// # Registering a factory
//
//	type Audited struct{ Topic string }
//
//	reg := interception.Method[Audited]("audit", 0, func() (interception.MethodFactory[Audited], error) {
//		return interception.MethodFactoryFunc[Audited](func(site *callsite.Site, a Audited) interception.Interceptor {
//			return func(ctx context.Context, inv *interception.Invocation, next interception.Handler) (any, error) {
//				publish(a.Topic, site.ID())
//				return next(ctx, inv)
//			}
//		}), nil
//	})
//
//	app := fx.New(
//		interception.FXModule,
//		capability.Contribute(reg),
//	)
//
// # Running an intercepted call
//
//	create := svc.WrapMethod(callsite.MethodOf(invoicesType, "Create"),
//		func(ctx context.Context, inv *interception.Invocation) (any, error) {
//			return invoices.Create(ctx, inv.Args[0].(Invoice))
//		})
//	out, err := create(ctx, &interception.Invocation{Args: []any{invoice}})
//
// Interceptors must call next exactly once and return its result and error
// unchanged. Observing interceptors record failures but never swallow them.
//
// # Thread Safety
//
// Resolver and Service are safe for concurrent use. Two goroutines
// intercepting a new site at the same time may both resolve it; the results
// are identical and the last one is cached.
package interception

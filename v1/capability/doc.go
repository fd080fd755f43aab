// Package capability is the registry through which fxinstrument discovers
// pluggable implementations: interceptor factories, naming filters and any
// other extension point keyed by a capability Kind.
//
// Modules contribute a Registration to the fx value group "capabilities".
// The Catalog collects them and hands out Handles. A handle is lazy twice:
// Reify computes the full Metadata (contracts with their annotation type
// arguments) on first use, and Instance constructs the implementation on
// first use. Both results are memoized, so the implementation is a
// container-scoped singleton.
//
// Enumeration order is the container rank order: higher Rank first, ties
// broken by registration order.
//
//	app := fx.New(
//		capability.FXModule,
//		capability.Contribute(capability.Registration{
//			Name:       "audit",
//			Rank:       10,
//			Advertises: []capability.Kind{capability.MethodInterceptor},
//			Describe:   describeAudit,
//			New:        newAuditFactory,
//		}),
//	)
package capability

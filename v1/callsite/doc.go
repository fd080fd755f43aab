// Package callsite describes the places where fxinstrument reads metadata:
// methods, constructors, fields, parameters and whole types of components
// managed by the fx container.
//
// Go has no annotations, so metadata is explicit. A component declares a
// *Type once (usually with Describe) and attaches plain Go values as
// annotations to the type itself or to its methods:
//
//	var invoicesType = callsite.Describe[*Invoices](
//		callsite.WithScope(callsite.ScopeSingleton),
//		callsite.WithAnnotations(health.Check{Name: "invoices"}),
//		callsite.WithMethod("Create", instrument.Counted{}, instrument.Timed{}),
//	)
//
// A Site then points at one element of that type. Annotation lookup on a site
// checks the element first and falls back to the declaring type, so a
// type-level annotation applies to every method without repetition:
//
//	site := callsite.MethodOf(invoicesType, "Create")
//	counted, ok := callsite.Lookup[instrument.Counted](site)
//
// Annotation values are keyed by their dynamic reflect.Type; a site carries at
// most one annotation per type (the first one wins).
package callsite

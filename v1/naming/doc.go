// Package naming computes the structured names of observables (counters,
// meters, timers, histograms, gauges) created at call and injection sites.
//
// A name is built by folding an ordered chain of filters over an empty
// MetricName. Filters declare a priority; higher priorities run first and
// ties keep registration order. The built-in bands are:
//
//	PriorityEstablish   = 4000  // set the base name if none is set yet
//	PriorityOverride    = 3000  // replace it with an annotated name
//	PriorityTag         = 2000  // add tags
//	PriorityTagOverride = 1000  // force tag values
//
// so override filters always see the name established before them.
//
// # Naming rules of the default chain
//
//   - A field, parameter or method site is named namespace.Type.member,
//     a constructor namespace.Type.Type and a type site namespace.Type.
//   - An annotation implementing Named with a non-empty name replaces it with
//     namespace.Type.name, or with the bare name when absolute.
//   - Tags annotations on the type and the member add tags.
//   - RequestTagFilter adds the HTTP verb and resource of the in-flight
//     request, but only inside a request and only for sites whose component
//     does not outlive the request.
//   - Config.Tags force constant tags.
//
// Names that stay empty get a unique "metric-<uuid>" fallback.
//
// # Formatting
//
// Format renders the base name followed by the key-sorted tags:
//
//	billing.Invoices.create[method=POST,resource=/invoices]
//
// # Caching
//
// The result of the leading filters that do not depend on the request is
// cached per site, kind and annotation in a bounded LRU.
package naming

package requestctx

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
)

// Info describes the request being handled.
type Info struct {
	// Method is the HTTP verb.
	Method string
	// Resource identifies the matched resource, e.g. a route template.
	Resource string
	// Operation identifies the handler of the resource, e.g. a route name.
	Operation string
}

type contextKey struct{}

// WithInfo returns a copy of ctx carrying info.
func WithInfo(ctx context.Context, info Info) context.Context {
	return context.WithValue(ctx, contextKey{}, info)
}

// FromContext returns the request carried by ctx.
func FromContext(ctx context.Context) (Info, bool) {
	if ctx == nil {
		return Info{}, false
	}
	info, ok := ctx.Value(contextKey{}).(Info)
	return info, ok
}

// Provider gives access to the current request, if any.
type Provider interface {
	Current(ctx context.Context) (Info, bool)
}

// ContextProvider reads the request from the context.
type ContextProvider struct{}

// Current implements Provider.
func (ContextProvider) Current(ctx context.Context) (Info, bool) {
	return FromContext(ctx)
}

// Middleware records the request verb and path in the request context. Use
// MuxMiddleware on gorilla/mux routers to record route templates instead.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := Info{Method: r.Method, Resource: r.URL.Path}
		next.ServeHTTP(w, r.WithContext(WithInfo(r.Context(), info)))
	})
}

// MuxMiddleware records the verb, the matched route template and the route
// name. Route templates keep the tag cardinality bounded where raw paths would not.
func MuxMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := Info{Method: r.Method}
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					info.Resource = tpl
				}
				info.Operation = route.GetName()
			}
			if info.Resource == "" {
				info.Resource = r.URL.Path
			}
			next.ServeHTTP(w, r.WithContext(WithInfo(r.Context(), info)))
		})
	}
}

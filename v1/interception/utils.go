package interception

import (
	"context"
	"sync/atomic"

	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
)

// Chain composes interceptors around h. The first interceptor is outermost.
// With no interceptors h is returned as is.
func Chain(interceptors []Interceptor, h Handler) Handler {
	for i := len(interceptors) - 1; i >= 0; i-- {
		h = link(interceptors[i], h)
	}
	return h
}

func link(i Interceptor, next Handler) Handler {
	return func(ctx context.Context, inv *Invocation) (any, error) {
		var proceeded atomic.Bool
		guarded := func(ctx context.Context, inv *Invocation) (any, error) {
			if !proceeded.CompareAndSwap(false, true) {
				return nil, ErrProceedTwice
			}
			return next(ctx, inv)
		}
		return i(ctx, inv, guarded)
	}
}

func bindSite(site *callsite.Site, h Handler) Handler {
	return func(ctx context.Context, inv *Invocation) (any, error) {
		if inv == nil {
			inv = &Invocation{}
		}
		if inv.Site == nil {
			inv.Site = site
		}
		return h(ctx, inv)
	}
}

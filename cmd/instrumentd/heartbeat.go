package main

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
	"github.com/Aleph-Alpha/fxinstrument/v1/health"
	"github.com/Aleph-Alpha/fxinstrument/v1/instrument"
	"github.com/Aleph-Alpha/fxinstrument/v1/interception"
	"github.com/Aleph-Alpha/fxinstrument/v1/metrics"
	"github.com/Aleph-Alpha/fxinstrument/v1/schedule"
)

// beatInterval is how often the heartbeat beats. The health check fails
// after three missed beats.
const beatInterval = 15 * time.Second

var errStale = errors.New("heartbeat is stale")

var heartbeatType = callsite.Describe[Heartbeat](
	callsite.WithNamespace("instrumentd"),
	callsite.WithScope(callsite.ScopeSingleton),
	callsite.WithAnnotations(health.Check{Name: "heartbeat"}),
	callsite.WithMethod("Beat",
		schedule.Scheduled{Spec: "@every " + beatInterval.String()},
		instrument.Timed{},
		instrument.Traced{},
	),
	callsite.WithMethod("Uptime", instrument.Gauge{Name: "uptime.seconds"}),
)

// Heartbeat is a singleton that beats on a schedule. It reports itself
// healthy while beats keep coming.
type Heartbeat struct {
	Beats metrics.Meter `metric:""`

	started time.Time
	last    atomic.Int64
	beat    interception.Handler
}

// NewHeartbeat creates the heartbeat. Beat runs through the interceptors of
// its method site.
func NewHeartbeat(svc *interception.Service) *Heartbeat {
	h := &Heartbeat{started: time.Now()}
	h.last.Store(h.started.UnixNano())
	h.beat = svc.WrapMethod(callsite.MethodOf(heartbeatType, "Beat"), func(context.Context, *interception.Invocation) (any, error) {
		h.last.Store(time.Now().UnixNano())
		if h.Beats != nil {
			h.Beats.Mark(1)
		}
		return nil, nil
	})
	return h
}

// Beat records a beat.
func (h *Heartbeat) Beat(ctx context.Context) error {
	_, err := h.beat(ctx, &interception.Invocation{Target: h})
	return err
}

// Uptime is the number of seconds since construction.
func (h *Heartbeat) Uptime() float64 {
	return time.Since(h.started).Seconds()
}

// Check fails once three beats were missed.
func (h *Heartbeat) Check(context.Context) error {
	if time.Since(time.Unix(0, h.last.Load())) > 3*beatInterval {
		return errStale
	}
	return nil
}

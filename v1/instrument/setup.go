package instrument

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
	"github.com/Aleph-Alpha/fxinstrument/v1/capability"
	"github.com/Aleph-Alpha/fxinstrument/v1/interception"
	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
	"github.com/Aleph-Alpha/fxinstrument/v1/metrics"
	"github.com/Aleph-Alpha/fxinstrument/v1/naming"
)

// Ranks of the built-in factories. Higher ranks wrap lower ones, so spans
// include the time spent in metrics bookkeeping.
const (
	RankTraced           = 400
	RankTimed            = 300
	RankMetered          = 200
	RankExceptionMetered = 150
	RankCounted          = 100
)

const instrumentationName = "github.com/Aleph-Alpha/fxinstrument/v1/instrument"

// Instruments provides the interceptors of the metric and tracing
// annotations.
type Instruments struct {
	chain    *naming.Chain
	registry metrics.Registry
	tracer   trace.Tracer
	log      logger.Logger
}

// NewInstruments creates the factories.
//
// Parameters:
//   - chain: names the observables of every intercepted site
//   - registry: stores the counters, meters and timers
//   - tp: provides the tracer for Traced sites; nil leaves them unintercepted
//   - log: logger for instrumentation diagnostics; nil discards
//
// Returns:
//   - *Instruments: the factories, to be added with RegisterFactories
func NewInstruments(chain *naming.Chain, registry metrics.Registry, tp trace.TracerProvider, log logger.Logger) *Instruments {
	if log == nil {
		log = logger.NewNop()
	}
	in := &Instruments{chain: chain, registry: registry, log: log}
	if tp != nil {
		in.tracer = tp.Tracer(instrumentationName)
	}
	return in
}

// Registrations returns the capability registrations of every factory.
func (in *Instruments) Registrations() []capability.Registration {
	return []capability.Registration{
		interception.Method[Traced]("instrument.traced", RankTraced, func() (interception.MethodFactory[Traced], error) {
			return interception.MethodFactoryFunc[Traced](in.traced), nil
		}),
		interception.MethodAndConstructor[Timed]("instrument.timed", RankTimed, func() (interception.Factory[Timed], error) {
			return both[Timed](in.timed), nil
		}),
		interception.MethodAndConstructor[Metered]("instrument.metered", RankMetered, func() (interception.Factory[Metered], error) {
			return both[Metered](in.metered), nil
		}),
		interception.MethodAndConstructor[ExceptionMetered]("instrument.exception-metered", RankExceptionMetered, func() (interception.Factory[ExceptionMetered], error) {
			return both[ExceptionMetered](in.exceptionMetered), nil
		}),
		interception.MethodAndConstructor[Counted]("instrument.counted", RankCounted, func() (interception.Factory[Counted], error) {
			return both[Counted](in.counted), nil
		}),
	}
}

// both serves method and constructor sites with the same function.
type both[A any] func(site *callsite.Site, a A) interception.Interceptor

func (f both[A]) ProvideMethod(site *callsite.Site, a A) interception.Interceptor {
	return f(site, a)
}

func (f both[A]) ProvideConstructor(site *callsite.Site, a A) interception.Interceptor {
	return f(site, a)
}

func (in *Instruments) counted(site *callsite.Site, a Counted) interception.Interceptor {
	c, err := in.registry.Counter(in.name(site, naming.KindCounter, a))
	if err != nil {
		in.decline(site, err)
		return nil
	}
	return func(ctx context.Context, inv *interception.Invocation, next interception.Handler) (any, error) {
		c.Inc()
		if !a.Monotonic {
			defer c.Dec()
		}
		return next(ctx, inv)
	}
}

func (in *Instruments) timed(site *callsite.Site, a Timed) interception.Interceptor {
	t, err := in.registry.Timer(in.name(site, naming.KindTimer, a))
	if err != nil {
		in.decline(site, err)
		return nil
	}
	return func(ctx context.Context, inv *interception.Invocation, next interception.Handler) (any, error) {
		start := time.Now()
		defer func() { t.Update(time.Since(start)) }()
		return next(ctx, inv)
	}
}

func (in *Instruments) metered(site *callsite.Site, a Metered) interception.Interceptor {
	m, err := in.registry.Meter(in.name(site, naming.KindMeter, a))
	if err != nil {
		in.decline(site, err)
		return nil
	}
	return func(ctx context.Context, inv *interception.Invocation, next interception.Handler) (any, error) {
		m.Mark(1)
		return next(ctx, inv)
	}
}

func (in *Instruments) exceptionMetered(site *callsite.Site, a ExceptionMetered) interception.Interceptor {
	var ann naming.Named = a
	if a.Name == "" {
		ann = Metric{Name: member(site) + DefaultExceptionSuffix}
	}
	m, err := in.registry.Meter(in.name(site, naming.KindMeter, ann))
	if err != nil {
		in.decline(site, err)
		return nil
	}
	return func(ctx context.Context, inv *interception.Invocation, next interception.Handler) (any, error) {
		out, err := next(ctx, inv)
		if err != nil && (a.Cause == nil || errors.Is(err, a.Cause)) {
			m.Mark(1)
		}
		return out, err
	}
}

func (in *Instruments) traced(site *callsite.Site, a Traced) interception.Interceptor {
	if in.tracer == nil {
		return nil
	}
	spanName := a.Name
	if spanName == "" {
		spanName = site.Declaring.QualifiedName() + "." + member(site)
	}
	return func(ctx context.Context, inv *interception.Invocation, next interception.Handler) (any, error) {
		ctx, span := in.tracer.Start(ctx, spanName)
		defer span.End()

		out, err := next(ctx, inv)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return out, err
	}
}

func (in *Instruments) name(site *callsite.Site, kind naming.Kind, a naming.Named) *naming.MetricName {
	return in.chain.NameOrFallback(context.Background(), naming.Request{Site: site, Kind: kind, Annotation: a})
}

func (in *Instruments) decline(site *callsite.Site, err error) {
	in.log.Warn("Cannot register observable, site is not instrumented", err, map[string]interface{}{
		"site": site.ID(),
	})
}

// member is the method name, or the type name for constructors.
func member(site *callsite.Site) string {
	if site.Kind == callsite.KindConstructor {
		return site.TypeName()
	}
	return site.Member
}

package instrument

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/fxinstrument/v1/activation"
	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
	"github.com/Aleph-Alpha/fxinstrument/v1/capability"
	"github.com/Aleph-Alpha/fxinstrument/v1/interception"
	"github.com/Aleph-Alpha/fxinstrument/v1/metrics"
	"github.com/Aleph-Alpha/fxinstrument/v1/naming"
)

var errDeclined = errors.New("declined")

type fixture struct {
	metrics *metrics.Metrics
	chain   *naming.Chain
	service *interception.Service
}

func newFixture(t *testing.T, tp trace.TracerProvider) *fixture {
	t.Helper()
	m := metrics.NewMetrics(metrics.Config{})
	chain, err := naming.NewChain(naming.DefaultFilters(nil, nil), naming.Config{}, nil)
	require.NoError(t, err)

	catalog := capability.NewCatalog()
	RegisterFactories(catalog, NewInstruments(chain, m, tp, nil))

	svc, err := interception.NewService(interception.NewResolver(catalog, nil), interception.Config{}, nil)
	require.NoError(t, err)
	return &fixture{metrics: m, chain: chain, service: svc}
}

func widgetType(methods ...callsite.Method) *callsite.Type {
	return &callsite.Type{Namespace: "pkg", Name: "Widget", Scope: callsite.ScopeSingleton, Methods: methods}
}

func metricName(base string) *naming.MetricName {
	return naming.NewMetricName().SetName(base)
}

func TestCountedReturnsToZeroAfterConcurrentCalls(t *testing.T) {
	f := newFixture(t, nil)
	site := callsite.MethodOf(widgetType(callsite.Method{Name: "Work", Annotations: callsite.Annotations{Counted{}}}), "Work")

	entered := make(chan struct{}, 2)
	release := make(chan struct{})
	work := f.service.WrapMethod(site, func(ctx context.Context, inv *interception.Invocation) (any, error) {
		entered <- struct{}{}
		<-release
		return "done", nil
	})

	var g errgroup.Group
	for range 2 {
		g.Go(func() error {
			_, err := work(context.Background(), &interception.Invocation{})
			return err
		})
	}
	<-entered
	<-entered

	counter, err := f.metrics.Counter(metricName("pkg.Widget.Work"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), counter.Count())

	close(release)
	require.NoError(t, g.Wait())
	assert.Equal(t, int64(0), counter.Count())
}

func TestMonotonicCountedOnlyGoesUp(t *testing.T) {
	f := newFixture(t, nil)
	site := callsite.MethodOf(widgetType(callsite.Method{Name: "Work", Annotations: callsite.Annotations{Counted{Name: "calls", Monotonic: true}}}), "Work")
	work := f.service.WrapMethod(site, func(context.Context, *interception.Invocation) (any, error) { return nil, nil })

	for range 3 {
		_, err := work(context.Background(), nil)
		require.NoError(t, err)
	}

	counter, err := f.metrics.Counter(metricName("pkg.Widget.calls"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), counter.Count())
}

func TestTimedMeteredAndExceptionMetered(t *testing.T) {
	f := newFixture(t, nil)
	desc := widgetType(callsite.Method{Name: "Save", Annotations: callsite.Annotations{
		Timed{},
		Metered{Name: "saves"},
		ExceptionMetered{Cause: errDeclined},
	}})
	site := callsite.MethodOf(desc, "Save")

	var fail atomic.Bool
	other := errors.New("other")
	save := f.service.WrapMethod(site, func(context.Context, *interception.Invocation) (any, error) {
		if fail.Load() {
			return nil, errDeclined
		}
		return nil, other
	})

	_, err := save(context.Background(), nil)
	assert.Same(t, other, err)
	fail.Store(true)
	_, err = save(context.Background(), nil)
	assert.Same(t, errDeclined, err)

	assert.Equal(t, []string{
		"pkg.Widget.Save",
		"pkg.Widget.Save.exceptions",
		"pkg.Widget.saves",
	}, f.metrics.Names())

	timer, err := f.metrics.Timer(metricName("pkg.Widget.Save"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), timer.Count())

	saves, err := f.metrics.Meter(metricName("pkg.Widget.saves"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), saves.Count())

	exceptions, err := f.metrics.Meter(metricName("pkg.Widget.Save.exceptions"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), exceptions.Count())
}

func TestTimedConstructor(t *testing.T) {
	f := newFixture(t, nil)
	desc := &callsite.Type{Namespace: "pkg", Name: "Widget", Annotations: callsite.Annotations{Timed{}}}

	w, err := interception.Construct(context.Background(), f.service, callsite.ConstructorOf(desc),
		func(context.Context, []any) (string, error) { return "widget", nil })
	require.NoError(t, err)
	assert.Equal(t, "widget", w)

	timer, err := f.metrics.Timer(metricName("pkg.Widget.Widget"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), timer.Count())
}

func TestKindCollisionDeclinesSite(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.metrics.Meter(metricName("pkg.Widget.Work"))
	require.NoError(t, err)

	site := callsite.MethodOf(widgetType(callsite.Method{Name: "Work", Annotations: callsite.Annotations{Counted{}}}), "Work")
	assert.Empty(t, f.service.MethodInterceptors(site))
}

func TestTracedRecordsErrorWithoutTransformingIt(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	f := newFixture(t, tp)
	site := callsite.MethodOf(widgetType(callsite.Method{Name: "Load", Annotations: callsite.Annotations{Traced{}}}), "Load")

	boom := errors.New("boom")
	load := f.service.WrapMethod(site, func(ctx context.Context, _ *interception.Invocation) (any, error) {
		assert.True(t, trace.SpanFromContext(ctx).SpanContext().IsValid())
		return nil, boom
	})

	_, err := load(context.Background(), nil)
	assert.Same(t, boom, err)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "pkg.Widget.Load", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
}

func TestTracedWithoutProviderIsNotIntercepted(t *testing.T) {
	f := newFixture(t, nil)
	site := callsite.MethodOf(widgetType(callsite.Method{Name: "Load", Annotations: callsite.Annotations{Traced{}}}), "Load")
	assert.Empty(t, f.service.MethodInterceptors(site))
}

type widget struct {
	Total   metrics.Counter `metric:""`
	Latency metrics.Timer   `metric:"render.latency"`
	Hits    metrics.Meter   `metric:"com.metric,absolute"`
	Sizes   metrics.Histogram
}

func TestInjectorNamesFields(t *testing.T) {
	f := newFixture(t, nil)
	inj := NewInjector(f.chain, f.metrics, nil)

	w := &widget{}
	require.NoError(t, inj.Inject(context.Background(), w, widgetType()))

	require.NotNil(t, w.Total)
	require.NotNil(t, w.Latency)
	require.NotNil(t, w.Hits)
	assert.Nil(t, w.Sizes)
	assert.Equal(t, []string{"com.metric", "pkg.Widget.render.latency", "pkg.Widget.total"}, f.metrics.Names())

	w.Total.Inc()
	again := &widget{}
	require.NoError(t, inj.Inject(context.Background(), again, widgetType()))
	assert.Equal(t, int64(1), again.Total.Count())
}

func TestInjectorRejectsBadTargets(t *testing.T) {
	f := newFixture(t, nil)
	inj := NewInjector(f.chain, f.metrics, nil)

	assert.ErrorIs(t, inj.Inject(context.Background(), widget{}, nil), ErrNotStruct)

	type badField struct {
		Depth metrics.Gauge `metric:""`
	}
	assert.ErrorIs(t, inj.Inject(context.Background(), &badField{}, nil), ErrUnsupportedField)

	type valueField struct {
		Count int `metric:""`
	}
	assert.NotPanics(t, func() {
		assert.ErrorIs(t, inj.Inject(context.Background(), &valueField{}, nil), ErrUnsupportedField)
	})

	type setValueField struct {
		Total metrics.Counter
		Name  string `metric:"name"`
	}
	assert.NotPanics(t, func() {
		assert.ErrorIs(t, inj.Inject(context.Background(), &setValueField{Name: "x"}, nil), ErrUnsupportedField)
	})
}

func TestMemberName(t *testing.T) {
	tests := map[string]string{
		"Total":      "total",
		"HTTPErrors": "httpErrors",
		"ID":         "id",
		"hits":       "hits",
	}
	for in, want := range tests {
		assert.Equal(t, want, memberName(in), in)
	}
}

type queue struct {
	depth atomic.Int64
}

func (q *queue) Depth() int64 { return q.depth.Load() }

func (q *queue) Broken(int) int { return 0 }

func queueType(methods ...callsite.Method) *callsite.Type {
	return &callsite.Type{Namespace: "pkg", Name: "Queue", Scope: callsite.ScopeSingleton, Methods: methods}
}

func TestGaugeActivator(t *testing.T) {
	f := newFixture(t, nil)
	g, err := NewGaugeActivator(f.chain, f.metrics)
	require.NoError(t, err)

	q := &queue{}
	q.depth.Store(7)
	desc := queueType(callsite.Method{Name: "Depth", Annotations: callsite.Annotations{Gauge{}}})

	require.NoError(t, g.OnEvent(activation.Event{Type: activation.PostConstruction, Scope: callsite.ScopeSingleton, Instance: q, Descriptor: desc}))
	gauge, err := f.metrics.Gauge(metricName("pkg.Queue.Depth"), nil)
	require.NoError(t, err)
	assert.Equal(t, 7.0, gauge.Value())

	require.NoError(t, g.OnEvent(activation.Event{Type: activation.PreDestruction, Scope: callsite.ScopeSingleton, Instance: q, Descriptor: desc}))
	assert.NotContains(t, f.metrics.Names(), "pkg.Queue.Depth")
}

func TestGaugeSharedByInstancesOutlivesOne(t *testing.T) {
	f := newFixture(t, nil)
	g, err := NewGaugeActivator(f.chain, f.metrics)
	require.NoError(t, err)

	first, second := &queue{}, &queue{}
	first.depth.Store(7)
	second.depth.Store(9)
	desc := queueType(callsite.Method{Name: "Depth", Annotations: callsite.Annotations{Gauge{}}})
	event := func(typ activation.EventType, q *queue) activation.Event {
		return activation.Event{Type: typ, Scope: callsite.ScopeSingleton, Instance: q, Descriptor: desc}
	}

	require.NoError(t, g.OnEvent(event(activation.PostConstruction, first)))
	require.NoError(t, g.OnEvent(event(activation.PostConstruction, second)))
	gauge, err := f.metrics.Gauge(metricName("pkg.Queue.Depth"), nil)
	require.NoError(t, err)
	assert.Equal(t, 7.0, gauge.Value())

	require.NoError(t, g.OnEvent(event(activation.PreDestruction, first)))
	assert.Contains(t, f.metrics.Names(), "pkg.Queue.Depth")
	gauge, err = f.metrics.Gauge(metricName("pkg.Queue.Depth"), nil)
	require.NoError(t, err)
	assert.Equal(t, 9.0, gauge.Value())

	require.NoError(t, g.OnEvent(event(activation.PreDestruction, second)))
	assert.NotContains(t, f.metrics.Names(), "pkg.Queue.Depth")
}

func TestGaugeActivatorRejectsBadSignature(t *testing.T) {
	f := newFixture(t, nil)
	g, err := NewGaugeActivator(f.chain, f.metrics)
	require.NoError(t, err)

	desc := queueType(callsite.Method{Name: "Broken", Annotations: callsite.Annotations{Gauge{}}})
	err = g.OnEvent(activation.Event{Type: activation.PostConstruction, Scope: callsite.ScopeSingleton, Instance: &queue{}, Descriptor: desc})
	assert.ErrorIs(t, err, ErrGaugeSignature)
}

type service struct {
	Requests metrics.Meter `metric:""`
	queue
}

func TestFXModuleEndToEnd(t *testing.T) {
	desc := &callsite.Type{
		Namespace: "pkg",
		Name:      "Service",
		Scope:     callsite.ScopeSingleton,
		Methods: []callsite.Method{
			{Name: "Depth", Annotations: callsite.Annotations{Gauge{Name: "queue.depth"}}},
			{Name: "Handle", Annotations: callsite.Annotations{Timed{}}},
		},
	}

	var reg metrics.Registry
	var svc *interception.Service
	app := fxtest.New(t,
		capability.FXModule,
		interception.FXModule,
		naming.FXModule,
		metrics.FXModule,
		activation.FXModule,
		FXModule,
		fx.Provide(func() *service { return &service{} }),
		activation.Observe[*service](callsite.ScopeSingleton, desc),
		fx.Invoke(func(*service) {}),
		fx.Populate(&reg, &svc),
	)
	app.RequireStart()

	handle := svc.WrapMethod(callsite.MethodOf(desc, "Handle"), func(context.Context, *interception.Invocation) (any, error) {
		time.Sleep(time.Millisecond)
		return nil, nil
	})
	_, err := handle(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg.Service.Handle", "pkg.Service.queue.depth", "pkg.Service.requests"}, reg.Names())

	app.RequireStop()
	assert.Equal(t, []string{"pkg.Service.Handle", "pkg.Service.requests"}, reg.Names())
}

package naming

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"

	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
	"github.com/Aleph-Alpha/fxinstrument/v1/capability"
	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
	"github.com/Aleph-Alpha/fxinstrument/v1/requestctx"
)

type named struct {
	name     string
	absolute bool
}

func (n named) MetricName() (string, bool) { return n.name, n.absolute }

func widget(scope callsite.Scope, annotations ...any) *callsite.Type {
	return &callsite.Type{Namespace: "pkg", Name: "Widget", Scope: scope, Annotations: annotations}
}

func newChain(t *testing.T, filters ...Filter) *Chain {
	t.Helper()
	c, err := NewChain(filters, Config{}, nil)
	require.NoError(t, err)
	return c
}

func TestPositionalNames(t *testing.T) {
	c := newChain(t, DefaultFilters(nil, nil)...)
	w := widget(callsite.ScopeSingleton)

	tests := []struct {
		site *callsite.Site
		want string
	}{
		{callsite.FieldOf(w, "total"), "pkg.Widget.total"},
		{callsite.MethodOf(w, "Render"), "pkg.Widget.Render"},
		{callsite.ConstructorOf(w), "pkg.Widget.Widget"},
		{callsite.TypeOf(w), "pkg.Widget"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			n, err := c.BuildName(context.Background(), tt.site, KindCounter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.String())
		})
	}
}

func TestEstablishedNameIsVisibleToTagFilters(t *testing.T) {
	seen := FilterFunc{P: PriorityTag, Fn: func(_ context.Context, n *MetricName, _ Request) (*MetricName, error) {
		return n.AddTag("seen", n.Name()), nil
	}}
	// Registered ahead of the name filters on purpose.
	c := newChain(t, append([]Filter{seen}, DefaultFilters(nil, nil)...)...)

	n, err := c.BuildName(context.Background(), callsite.FieldOf(widget(callsite.ScopeSingleton), "total"), KindCounter)
	require.NoError(t, err)

	v, ok := n.Tag("seen")
	require.True(t, ok)
	assert.Equal(t, "pkg.Widget.total", v)
}

func TestEqualPrioritiesKeepRegistrationOrder(t *testing.T) {
	appendTo := func(s string) Filter {
		return FilterFunc{P: PriorityTag, Fn: func(_ context.Context, n *MetricName, _ Request) (*MetricName, error) {
			return n.SetName(n.Name() + s), nil
		}}
	}
	c := newChain(t, appendTo("a"), appendTo("b"), appendTo("c"))

	n, err := c.Build(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "abc", n.Name())
}

func TestAnnotatedNames(t *testing.T) {
	c := newChain(t, DefaultFilters(nil, nil)...)
	w := widget(callsite.ScopeSingleton)

	absolute, err := c.BuildName(context.Background(), callsite.FieldOf(w, "total", named{"com.metric", true}), KindCounter)
	require.NoError(t, err)
	assert.Equal(t, "com.metric", absolute.Name())

	relative, err := c.BuildName(context.Background(), callsite.FieldOf(w, "total", named{"hits", false}), KindCounter)
	require.NoError(t, err)
	assert.Equal(t, "pkg.Widget.hits", relative.Name())

	// The request annotation wins over the member's.
	n, err := c.Build(context.Background(), Request{
		Site:       callsite.FieldOf(w, "total", named{"hits", false}),
		Annotation: named{"calls", false},
	})
	require.NoError(t, err)
	assert.Equal(t, "pkg.Widget.calls", n.Name())
}

func TestSamePositionWithDifferentAnnotations(t *testing.T) {
	c := newChain(t, DefaultFilters(nil, nil)...)
	w := widget(callsite.ScopeSingleton)

	sites := []struct {
		site *callsite.Site
		want string
	}{
		{callsite.FieldOf(w, "total", named{"com.metric", true}), "com.metric"},
		{callsite.FieldOf(w, "total"), "pkg.Widget.total"},
		{callsite.FieldOf(w, "total", Tags{"tier": "gold"}), "pkg.Widget.total[tier=gold]"},
		{callsite.FieldOf(w, "total", named{"com.metric", true}), "com.metric"},
	}
	for _, s := range sites {
		n, err := c.BuildName(context.Background(), s.site, KindCounter)
		require.NoError(t, err)
		assert.Equal(t, s.want, n.String())
	}

	// Another descriptor with the same name but different type annotations.
	tagged := widget(callsite.ScopeSingleton, Tags{"team": "core"})
	n, err := c.BuildName(context.Background(), callsite.FieldOf(tagged, "total"), KindCounter)
	require.NoError(t, err)
	assert.Equal(t, "pkg.Widget.total[team=core]", n.String())
}

func TestAnnotationTagsMemberOverridesType(t *testing.T) {
	c := newChain(t, DefaultFilters(nil, nil)...)
	w := widget(callsite.ScopeSingleton, Tags{"team": "core", "tier": "1"})

	n, err := c.BuildName(context.Background(), callsite.FieldOf(w, "total", Tags{"tier": "2"}), KindCounter)
	require.NoError(t, err)
	assert.Equal(t, "pkg.Widget.total[team=core,tier=2]", n.String())
}

func TestConstantTagsOverrideEarlierTags(t *testing.T) {
	c := newChain(t, DefaultFilters(nil, map[string]string{"env": "prod"})...)
	w := widget(callsite.ScopeSingleton)

	n, err := c.BuildName(context.Background(), callsite.FieldOf(w, "total", Tags{"env": "dev"}), KindCounter)
	require.NoError(t, err)
	v, _ := n.Tag("env")
	assert.Equal(t, "prod", v)
}

func TestFormatIsDeterministic(t *testing.T) {
	a := NewMetricName().SetName("jobs").AddTag("y", "2").AddTag("x", "1")
	b := NewMetricName().SetName("jobs").AddTags(map[string]string{"x": "1", "y": "2"})

	assert.Equal(t, "jobs[x=1,y=2]", Format(a))
	assert.Equal(t, Format(a), Format(b))
	assert.Equal(t, "jobs", Format(NewMetricName().SetName("jobs")))
	assert.Empty(t, Format(nil))
}

func TestBuildIsIdempotent(t *testing.T) {
	c := newChain(t, DefaultFilters(requestctx.ContextProvider{}, nil)...)
	site := callsite.FieldOf(widget(callsite.ScopeSingleton), "total")

	first, err := c.BuildName(context.Background(), site, KindCounter)
	require.NoError(t, err)
	first.AddTag("mutated", "yes")

	second, err := c.BuildName(context.Background(), site, KindCounter)
	require.NoError(t, err)
	assert.Equal(t, "pkg.Widget.total", second.String())
}

func TestRequestTags(t *testing.T) {
	c := newChain(t, DefaultFilters(requestctx.ContextProvider{}, nil)...)
	inRequest := requestctx.WithInfo(context.Background(), requestctx.Info{Method: "GET", Resource: "/widgets/{id}", Operation: "get-widget"})

	t.Run("request scoped component", func(t *testing.T) {
		n, err := c.BuildName(inRequest, callsite.FieldOf(widget(callsite.ScopeRequest), "total"), KindCounter)
		require.NoError(t, err)
		assert.Equal(t, "pkg.Widget.total[method=GET,operation=get-widget,resource=/widgets/{id}]", n.String())
	})

	t.Run("singleton component", func(t *testing.T) {
		n, err := c.BuildName(inRequest, callsite.FieldOf(widget(callsite.ScopeSingleton), "total"), KindCounter)
		require.NoError(t, err)
		assert.False(t, n.HasTags())
	})

	t.Run("outside a request", func(t *testing.T) {
		n, err := c.BuildName(context.Background(), callsite.FieldOf(widget(callsite.ScopeRequest), "total"), KindCounter)
		require.NoError(t, err)
		assert.False(t, n.HasTags())
	})
}

func TestMissingProviderFailsFast(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logger.NewMockLogger(ctrl)
	log.EXPECT().Warn("Metric naming failed, using plain name", gomock.Any(), gomock.Any()).Times(1)

	c, err := NewChain([]Filter{DefaultNameFilter{}, RequestTagFilter{}}, Config{}, log)
	require.NoError(t, err)
	site := callsite.FieldOf(widget(callsite.ScopeRequest), "total")

	_, err = c.BuildName(context.Background(), site, KindCounter)
	require.Error(t, err)
	assert.True(t, IsMissingProvider(err))

	n := c.NameOrFallback(context.Background(), Request{Site: site, Kind: KindCounter})
	assert.Equal(t, "pkg.Widget.total", n.String())
}

func TestFilterErrorAbortsChain(t *testing.T) {
	boom := errors.New("boom")
	var after atomic.Int32
	c := newChain(t,
		FilterFunc{P: PriorityOverride, Fn: func(context.Context, *MetricName, Request) (*MetricName, error) { return nil, boom }},
		FilterFunc{P: PriorityTag, Fn: func(_ context.Context, n *MetricName, _ Request) (*MetricName, error) {
			after.Add(1)
			return n, nil
		}},
	)

	_, err := c.Build(context.Background(), Request{})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, after.Load())
}

func TestStaticPrefixIsCached(t *testing.T) {
	var static, scoped atomic.Int32
	c := newChain(t,
		FilterFunc{P: PriorityEstablish, Fn: func(_ context.Context, n *MetricName, _ Request) (*MetricName, error) {
			static.Add(1)
			return n.SetName("jobs"), nil
		}},
		RequestTagFilter{Provider: requestctx.ContextProvider{}},
		FilterFunc{P: PriorityTagOverride, Fn: func(_ context.Context, n *MetricName, _ Request) (*MetricName, error) {
			scoped.Add(1)
			return n, nil
		}},
	)
	site := callsite.FieldOf(widget(callsite.ScopeRequest), "total")

	for range 3 {
		_, err := c.BuildName(context.Background(), site, KindMeter)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), static.Load())
	assert.Equal(t, int32(3), scoped.Load())

	_, err := c.BuildName(context.Background(), site, KindTimer)
	require.NoError(t, err)
	assert.Equal(t, int32(2), static.Load())
}

func TestFallbackNames(t *testing.T) {
	c := newChain(t, DefaultFilters(nil, nil)...)

	a, err := c.Build(context.Background(), Request{Kind: KindGauge})
	require.NoError(t, err)
	b, err := c.Build(context.Background(), Request{Kind: KindGauge})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a.Name(), "metric-"))
	assert.NotEqual(t, a.Name(), b.Name())

	anonymous := &callsite.Site{Kind: callsite.KindField, Member: "x"}
	assert.Equal(t, fallbackName(anonymous, KindGauge), fallbackName(anonymous, KindGauge))
	assert.NotEqual(t, fallbackName(anonymous, KindGauge), fallbackName(anonymous, KindMeter))
}

func TestFXModuleAddsRegisteredFilters(t *testing.T) {
	var chain *Chain
	app := fxtest.New(t,
		capability.FXModule,
		FXModule,
		fx.Supply(Config{Tags: map[string]string{"service": "billing"}}),
		capability.Contribute(
			Register("tenant", ConstantTagFilter{Tags: map[string]string{"tenant": "acme"}}),
			capability.Registration{
				Name:       "broken",
				Advertises: []capability.Kind{capability.NamingFilter},
				New:        func() (any, error) { return "not a filter", nil },
			},
		),
		fx.Populate(&chain),
	)
	app.RequireStart()
	defer app.RequireStop()

	n, err := chain.BuildName(context.Background(), callsite.FieldOf(widget(callsite.ScopeSingleton), "total"), KindCounter)
	require.NoError(t, err)
	assert.Equal(t, "pkg.Widget.total[service=billing,tenant=acme]", n.String())
}

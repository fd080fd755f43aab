package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/Aleph-Alpha/fxinstrument/v1/naming"
)

func name(base string, tags ...string) *naming.MetricName {
	n := naming.NewMetricName().SetName(base)
	for i := 0; i+1 < len(tags); i += 2 {
		n.AddTag(tags[i], tags[i+1])
	}
	return n
}

func TestCounterExportsAsGauge(t *testing.T) {
	m := NewMetrics(Config{})

	c, err := m.Counter(name("pkg.Widget.total", "tier", "gold"))
	require.NoError(t, err)
	c.Inc()
	c.Inc()
	c.Dec()

	assert.Equal(t, int64(1), c.Count())
	expected := `
# HELP pkg_Widget_total pkg.Widget.total counter
# TYPE pkg_Widget_total gauge
pkg_Widget_total{tier="gold"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "pkg_Widget_total"))
}

func TestServiceLabelAndNamespace(t *testing.T) {
	m := NewMetrics(Config{Namespace: "billing", ServiceName: "api"})

	meter, err := m.Meter(name("jobs"))
	require.NoError(t, err)
	meter.Mark(3)
	meter.Mark(-1)

	assert.Equal(t, int64(3), meter.Count())
	expected := `
# HELP billing_jobs_total jobs meter
# TYPE billing_jobs_total counter
billing_jobs_total{service="api"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "billing_jobs_total"))
}

func TestSameKindRegistrationIsIdempotent(t *testing.T) {
	m := NewMetrics(Config{})

	a, err := m.Timer(name("render"))
	require.NoError(t, err)
	b, err := m.Timer(name("render"))
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, []string{"render"}, m.Names())
}

func TestDifferentKindCollides(t *testing.T) {
	m := NewMetrics(Config{})

	_, err := m.Counter(name("jobs"))
	require.NoError(t, err)

	_, err = m.Meter(name("jobs"))
	assert.True(t, IsNameCollision(err))
}

func TestTagsDistinguishObservables(t *testing.T) {
	m := NewMetrics(Config{})

	mail, err := m.Meter(name("jobs", "queue", "mail"))
	require.NoError(t, err)
	sms, err := m.Meter(name("jobs", "queue", "sms"))
	require.NoError(t, err)

	mail.Mark(1)
	assert.Zero(t, sms.Count())
	assert.Equal(t, []string{"jobs[queue=mail]", "jobs[queue=sms]"}, m.Names())
	assert.Equal(t, 2, testutil.CollectAndCount(m.Registry, "jobs_total"))
}

func TestDifferentTagKeysShareOneMetric(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "api"})

	plain, err := m.Counter(name("pkg.Widget.total"))
	require.NoError(t, err)
	get, err := m.Counter(name("pkg.Widget.total", "method", "GET", "resource", "/widgets"))
	require.NoError(t, err)
	op, err := m.Counter(name("pkg.Widget.total", "method", "GET", "resource", "/widgets", "operation", "list"))
	require.NoError(t, err)
	plain.Inc()
	get.Add(2)
	op.Add(3)

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	var found bool
	for _, f := range families {
		if f.GetName() != "pkg_Widget_total" {
			continue
		}
		found = true
		require.Len(t, f.GetMetric(), 3)
		for _, metric := range f.GetMetric() {
			var labels []string
			for _, l := range metric.GetLabel() {
				labels = append(labels, l.GetName())
			}
			assert.ElementsMatch(t, []string{"method", "operation", "resource", "service"}, labels)
		}
	}
	assert.True(t, found)
	assert.Equal(t, 3, testutil.CollectAndCount(m.Registry, "pkg_Widget_total"))

	assert.True(t, m.Unregister(name("pkg.Widget.total", "method", "GET", "resource", "/widgets", "operation", "list")))
	_, err = m.Registry.Gather()
	assert.NoError(t, err)
	assert.Equal(t, 2, testutil.CollectAndCount(m.Registry, "pkg_Widget_total"))
}

func TestSameSeriesFromDifferentNamesCollides(t *testing.T) {
	m := NewMetrics(Config{})

	_, err := m.Meter(name("jobs"))
	require.NoError(t, err)
	_, err = m.Meter(name("jobs", "queue", ""))
	assert.True(t, IsNameCollision(err))

	_, err = m.Histogram(name("render.seconds"))
	require.NoError(t, err)
	_, err = m.Timer(name("render"))
	assert.True(t, IsNameCollision(err))
}

func TestUnregister(t *testing.T) {
	m := NewMetrics(Config{})

	_, err := m.Counter(name("jobs"))
	require.NoError(t, err)

	assert.True(t, m.Unregister(name("jobs")))
	assert.False(t, m.Unregister(name("jobs")))
	assert.False(t, m.Unregister(nil))
	assert.Empty(t, m.Names())

	_, err = m.Meter(name("jobs"))
	assert.NoError(t, err)
}

func TestGaugeSamplesOnRead(t *testing.T) {
	m := NewMetrics(Config{})
	var mu sync.Mutex
	depth := 2.0

	g, err := m.Gauge(name("queue.depth"), func() float64 {
		mu.Lock()
		defer mu.Unlock()
		return depth
	})
	require.NoError(t, err)

	mu.Lock()
	depth = 5
	mu.Unlock()

	assert.Equal(t, 5.0, g.Value())
	expected := `
# HELP queue_depth queue.depth gauge
# TYPE queue_depth gauge
queue_depth 5
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "queue_depth"))
}

func TestTimerAndHistogramCount(t *testing.T) {
	m := NewMetrics(Config{Buckets: []float64{0.1, 1}})

	tm, err := m.Timer(name("render"))
	require.NoError(t, err)
	tm.Update(50 * time.Millisecond)
	tm.Time(func() {})

	h, err := m.Histogram(name("payload.size"))
	require.NoError(t, err)
	h.Update(512)

	assert.Equal(t, int64(2), tm.Count())
	assert.Equal(t, int64(1), h.Count())
	assert.Equal(t, 1, testutil.CollectAndCount(m.Registry, "render_seconds"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Registry, "payload_size"))
}

func TestNilName(t *testing.T) {
	m := NewMetrics(Config{})
	_, err := m.Counter(nil)
	assert.ErrorIs(t, err, ErrNilName)
}

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		"pkg.Widget.total": "pkg_Widget_total",
		"a:b":              "a:b",
		"9lives":           "_9lives",
		"x-y z":            "x_y_z",
		"":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitize(in), in)
	}
	assert.Equal(t, "a_b", sanitizeLabel("a:b"))
}

func TestHandlerServesRegistry(t *testing.T) {
	m := NewMetrics(Config{Address: ":0"})
	require.NotNil(t, m.Server)

	c, err := m.Counter(name("pkg.Widget.total"))
	require.NoError(t, err)
	c.Inc()

	rec := httptest.NewRecorder()
	m.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pkg_Widget_total 1")
}

func TestFXModuleWithoutServer(t *testing.T) {
	var reg Registry
	var m *Metrics
	app := fxtest.New(t,
		FXModule,
		fx.Populate(&reg, &m),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.Nil(t, m.Server)
	_, err := reg.Counter(name("jobs"))
	assert.NoError(t, err)
}

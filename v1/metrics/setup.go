package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Aleph-Alpha/fxinstrument/v1/naming"
)

// Metrics is the observable registry backed by a dedicated Prometheus
// registry, plus the optional HTTP server exposing it.
//
// It is safe for concurrent use.
type Metrics struct {
	// Server exposes /metrics. It is nil when Config.Address is empty.
	Server *http.Server

	// Registry is the Prometheus registry all observables are registered with.
	// Each Metrics has its own, so instances never share metric names.
	Registry *prometheus.Registry

	registerer prometheus.Registerer
	namespace  string
	buckets    []float64

	mu          sync.Mutex
	observables map[string]*entry
	families    map[string]*family
}

type entry struct {
	kind       naming.Kind
	family     *family
	labels     map[string]string
	observable any
}

// NewMetrics creates the registry. Every metric carries a constant
// service="<cfg.ServiceName>" label when a service name is set.
//
// Parameters:
//   - cfg: the listening address, namespace, service name, timer buckets and
//     whether the Go, process and build info collectors are registered
//
// Returns:
//   - *Metrics: an empty observable registry. Server is nil when
//     cfg.Address is empty.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090", ServiceName: "billing"})
//	c, err := m.Counter(naming.NewMetricName().SetName("pkg.Widget.total"))
//	c.Inc()
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	var registerer prometheus.Registerer = registry
	if cfg.ServiceName != "" {
		registerer = prometheus.WrapRegistererWith(prometheus.Labels{"service": cfg.ServiceName}, registry)
	}

	if cfg.EnableDefaultCollectors {
		registerer.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	m := &Metrics{
		Registry:    registry,
		registerer:  registerer,
		namespace:   sanitize(cfg.Namespace),
		buckets:     buckets,
		observables: map[string]*entry{},
		families:    map[string]*family{},
	}
	registerer.MustRegister(familyCollector{m: m})

	if cfg.Address != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		m.Server = &http.Server{
			Addr:    cfg.Address,
			Handler: mux,
		}
	}
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

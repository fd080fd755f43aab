// Package metrics is the observable registry: counters, meters, timers,
// histograms and gauges stored under formatted metric names and exported
// through a dedicated Prometheus registry.
//
// Names come from the naming package. The registry key is
// naming.Format(name), so "jobs[queue=mail]" and "jobs[queue=sms]" are two
// observables. On the Prometheus side the base name is sanitized and the
// tags become labels:
//
//	pkg.Widget.total[tier=gold]  →  pkg_Widget_total{tier="gold"}
//
// Names sharing a base may carry different tag keys. Each series of the
// metric is labelled with the union of those keys, empty where a name lacks
// one, so pkg.Widget.total and pkg.Widget.total[method=GET] export side by
// side.
//
// Kinds map to Prometheus types as follows:
//   - Counter: gauge, since it goes up and down
//   - Meter: counter with a "_total" suffix
//   - Timer: histogram of seconds with a "_seconds" suffix
//   - Histogram: histogram
//   - Gauge: gauge function sampled on scrape
//
// # Direct Usage (Without FX)
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090", ServiceName: "billing"})
//	go m.Server.ListenAndServe()
//
//	c, err := m.Counter(naming.NewMetricName().SetName("pkg.Widget.total"))
//	if err != nil {
//	    return err
//	}
//	c.Inc()
//
// # FX Module Integration
//
//	app := fx.New(
//	    metrics.FXModule,
//	    fx.Supply(metrics.Config{Address: ":9090"}),
//	)
//
// # Configuration
//
// The registry can be configured via environment variables:
//
//	METRICS_ADDRESS=:9090                      # Address of the /metrics endpoint
//	METRICS_ENABLE_DEFAULT_COLLECTORS=true     # Go runtime and process collectors
//	METRICS_NAMESPACE=billing                  # Prefix of every metric name
//	METRICS_SERVICE_NAME=billing-api           # Constant "service" label
//
// # Thread Safety
//
// All methods of Metrics and of the observables it returns are safe for
// concurrent use.
package metrics

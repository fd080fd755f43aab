package metrics

// DefaultMetricsAddress is the listen address applied by the config loader
// when none is configured.
const DefaultMetricsAddress = ":9090"

// Config defines the configuration of the observable registry and the
// Prometheus scrape endpoint.
type Config struct {
	// Address is where the /metrics HTTP server listens, e.g. ":9090" or
	// "127.0.0.1:9100". An empty address disables the server; the registry
	// can still be served through Metrics.Handler.
	//
	// This setting can be configured via:
	//   - YAML configuration with the "address" key
	//   - Environment variable METRICS_ADDRESS
	Address string `yaml:"address" envconfig:"METRICS_ADDRESS"`

	// EnableDefaultCollectors registers the Go runtime, process and build
	// info collectors.
	//
	// This setting can be configured via:
	//   - YAML configuration with the "enable_default_collectors" key
	//   - Environment variable METRICS_ENABLE_DEFAULT_COLLECTORS
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS"`

	// Namespace prefixes every Prometheus metric name.
	//
	// Example:
	//   Namespace: "billing"
	//   → "pkg.Widget.total" is exported as "billing_pkg_Widget_total"
	Namespace string `yaml:"namespace" envconfig:"METRICS_NAMESPACE"`

	// ServiceName is added as a constant "service" label to every metric.
	// Empty leaves the label out.
	ServiceName string `yaml:"service_name" envconfig:"METRICS_SERVICE_NAME"`

	// Buckets are the histogram buckets of timers, in seconds. Empty uses
	// prometheus.DefBuckets.
	Buckets []float64 `yaml:"buckets"`
}

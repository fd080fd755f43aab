package naming

// DefaultCacheSize is the number of cached name prefixes.
const DefaultCacheSize = 4096

// Config configures the naming chain.
type Config struct {
	// CacheSize bounds the name cache. Values <= 0 use DefaultCacheSize.
	CacheSize int `yaml:"cache_size" envconfig:"NAMING_CACHE_SIZE"`

	// Tags are constant tags forced on every name, overriding tags set by
	// earlier filters. Typical keys are "service" and "env".
	Tags map[string]string `yaml:"tags"`
}

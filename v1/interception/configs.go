package interception

// DefaultCacheSize is the number of call sites whose interceptor chains are cached.
const DefaultCacheSize = 4096

// Config configures the interception service.
type Config struct {
	// CacheSize bounds the per-site interceptor cache.
	// Values <= 0 use DefaultCacheSize.
	CacheSize int `yaml:"cache_size" envconfig:"INTERCEPTION_CACHE_SIZE"`
}

package config

import (
	"github.com/Aleph-Alpha/fxinstrument/v1/health"
	"github.com/Aleph-Alpha/fxinstrument/v1/interception"
	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
	"github.com/Aleph-Alpha/fxinstrument/v1/metrics"
	"github.com/Aleph-Alpha/fxinstrument/v1/naming"
	"github.com/Aleph-Alpha/fxinstrument/v1/schedule"
	"github.com/Aleph-Alpha/fxinstrument/v1/tracer"
)

// DefaultHTTPAddress is where the service router listens when no address is
// configured.
const DefaultHTTPAddress = ":8080"

// Config aggregates the configuration of every fxinstrument package.
//
// Example YAML:
//
//	logger:
//	  level: debug
//	  service_name: billing
//	metrics:
//	  address: ":9090"
//	  namespace: billing
//	naming:
//	  tags:
//	    env: prod
//	health:
//	  timeout: 2s
type Config struct {
	Logger       logger.Config       `yaml:"logger"`
	Metrics      metrics.Config      `yaml:"metrics"`
	Tracer       tracer.Config       `yaml:"tracer"`
	Naming       naming.Config       `yaml:"naming"`
	Interception interception.Config `yaml:"interception"`
	Health       health.Config       `yaml:"health"`
	Schedule     schedule.Config     `yaml:"schedule"`
	HTTP         HTTPConfig          `yaml:"http"`
}

// HTTPConfig configures the service router serving health and metrics.
type HTTPConfig struct {
	// Address is the listen address of the router. Empty disables it.
	Address string `yaml:"address" envconfig:"HTTP_ADDRESS"`
}

// Default returns the configuration used for keys that are not set.
func Default() *Config {
	return &Config{
		Logger:       logger.Config{Level: logger.Info},
		Metrics:      metrics.Config{Address: metrics.DefaultMetricsAddress, EnableDefaultCollectors: true},
		Naming:       naming.Config{CacheSize: naming.DefaultCacheSize},
		Interception: interception.Config{CacheSize: interception.DefaultCacheSize},
		Health:       health.Config{Timeout: health.DefaultTimeout},
		HTTP:         HTTPConfig{Address: DefaultHTTPAddress},
	}
}

package health

import "time"

// DefaultTimeout bounds a single check when Config.Timeout is unset.
const DefaultTimeout = 5 * time.Second

// Config configures the health check registry.
type Config struct {
	// Timeout bounds each check run by RunAll.
	Timeout time.Duration `yaml:"timeout" envconfig:"HEALTH_TIMEOUT"`

	// Concurrency caps the checks running at once. Values <= 0 run all
	// checks at once.
	Concurrency int `yaml:"concurrency" envconfig:"HEALTH_CONCURRENCY"`
}

package schedule

// Config configures the scheduler.
type Config struct {
	// WithSeconds accepts a leading seconds field in cron specs.
	WithSeconds bool `yaml:"with_seconds" envconfig:"SCHEDULE_WITH_SECONDS"`

	// Location is the IANA time zone specs are evaluated in. Empty means
	// the local time zone.
	Location string `yaml:"location" envconfig:"SCHEDULE_LOCATION"`

	// SkipIfStillRunning skips a run while the previous run of the same job
	// has not finished.
	SkipIfStillRunning bool `yaml:"skip_if_still_running" envconfig:"SCHEDULE_SKIP_IF_STILL_RUNNING"`
}

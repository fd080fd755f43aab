package schedule

// Scheduled runs the annotated method on a cron spec, e.g. "@every 1m" or
// "0 3 * * *".
type Scheduled struct {
	Spec string
	// Name identifies the job in logs. Empty uses the qualified method name.
	Name string
}

// Package schedule runs component methods on cron specs.
//
// Methods annotated with Scheduled on singletons are added to a robfig/cron
// scheduler when the instance is constructed and removed again before it is
// destroyed. A scheduled method takes no arguments or a context.Context and
// returns nothing or an error; returned errors and panics are logged and do
// not stop later runs. The context passed to jobs is cancelled when the
// scheduler stops.
package schedule

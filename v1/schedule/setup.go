package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
)

// Scheduler runs jobs on cron specs. Jobs receive a context that is
// cancelled when the scheduler stops.
type Scheduler struct {
	cron   *cron.Cron
	log    logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a stopped scheduler. Start it with Start or through
// the fx lifecycle.
//
// Parameters:
//   - cfg: the time zone specs are evaluated in and whether a job run is
//     skipped while the previous one is still running
//   - log: logger for job panics and skipped runs; nil discards
//
// Returns:
//   - *Scheduler: the scheduler, with panicking jobs recovered
//   - error: when cfg.Location is not a known time zone
func NewScheduler(cfg Config, log logger.Logger) (*Scheduler, error) {
	if log == nil {
		log = logger.NewNop()
	}

	location := time.Local
	if cfg.Location != "" {
		loc, err := time.LoadLocation(cfg.Location)
		if err != nil {
			return nil, fmt.Errorf("schedule: location %q: %w", cfg.Location, err)
		}
		location = loc
	}

	cl := cronLogger{log: log}
	wrappers := []cron.JobWrapper{cron.Recover(cl)}
	if cfg.SkipIfStillRunning {
		wrappers = append(wrappers, cron.SkipIfStillRunning(cl))
	}

	opts := []cron.Option{
		cron.WithLocation(location),
		cron.WithLogger(cl),
		cron.WithChain(wrappers...),
	}
	if cfg.WithSeconds {
		opts = append(opts, cron.WithSeconds())
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{cron: cron.New(opts...), log: log, ctx: ctx, cancel: cancel}, nil
}

// AddFunc schedules fn. Errors returned by fn are logged.
func (s *Scheduler) AddFunc(spec, name string, fn func(ctx context.Context) error) (cron.EntryID, error) {
	if fn == nil {
		return 0, ErrNilJob
	}
	id, err := s.cron.AddJob(spec, job{name: name, fn: fn, s: s})
	if err != nil {
		return 0, fmt.Errorf("schedule: %s: %w", name, err)
	}
	s.log.Debug("Job scheduled", nil, map[string]interface{}{"job": name, "spec": spec})
	return id, nil
}

// Remove unschedules a job. Runs in progress complete.
func (s *Scheduler) Remove(id cron.EntryID) {
	s.cron.Remove(id)
}

// Entries returns the scheduled jobs.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels the job context and waits for running jobs until ctx ends.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type job struct {
	name string
	fn   func(ctx context.Context) error
	s    *Scheduler
}

func (j job) Run() {
	if err := j.fn(j.s.ctx); err != nil {
		j.s.log.Error("Scheduled job failed", err, map[string]interface{}{"job": j.name})
	}
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, nil, fields(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, err, fields(keysAndValues))
}

func fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return out
}

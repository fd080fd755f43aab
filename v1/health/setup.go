package health

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
)

// Result is the outcome of one check.
type Result struct {
	Name     string        `json:"name"`
	Healthy  bool          `json:"healthy"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Report is the outcome of a RunAll.
type Report struct {
	Healthy bool     `json:"healthy"`
	Checks  []Result `json:"checks"`
}

// Registry holds the named health checks. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	checks map[string]Checker
	cfg    Config
	log    logger.Logger
}

// NewRegistry creates an empty registry.
//
// Parameters:
//   - cfg: the per-check timeout and the number of checks RunAll runs at
//     once. A non-positive timeout falls back to DefaultTimeout.
//   - log: logger for failing checks; nil discards
//
// Returns:
//   - *Registry: a registry with no checks, ready for Register and the
//     health activator
func NewRegistry(cfg Config, log logger.Logger) *Registry {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Registry{checks: map[string]Checker{}, cfg: cfg, log: log}
}

// Register adds c under name.
func (r *Registry) Register(name string, c Checker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.checks[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCheck, name)
	}
	r.checks[name] = c
	r.log.Debug("Health check registered", nil, map[string]interface{}{"check": name})
	return nil
}

// Unregister removes the check named name and reports whether it existed.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.checks[name]
	delete(r.checks, name)
	return ok
}

// Names returns the registered check names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.checks))
	for name := range r.checks {
		names = append(names, name)
	}
	r.mu.RUnlock()

	slices.Sort(names)
	return names
}

// RunAll runs every check concurrently, each bounded by the configured
// timeout, and returns the results sorted by name. A failing check never
// cancels the others.
func (r *Registry) RunAll(ctx context.Context) Report {
	r.mu.RLock()
	names := make([]string, 0, len(r.checks))
	checks := make([]Checker, 0, len(r.checks))
	for name, c := range r.checks {
		names = append(names, name)
		checks = append(checks, c)
	}
	r.mu.RUnlock()

	results := make([]Result, len(checks))
	var g errgroup.Group
	if r.cfg.Concurrency > 0 {
		g.SetLimit(r.cfg.Concurrency)
	}
	for i := range checks {
		g.Go(func() error {
			results[i] = r.run(ctx, names[i], checks[i])
			return nil
		})
	}
	_ = g.Wait()

	slices.SortFunc(results, func(a, b Result) int {
		return cmp.Compare(a.Name, b.Name)
	})

	report := Report{Healthy: true, Checks: results}
	for _, res := range results {
		if !res.Healthy {
			report.Healthy = false
			r.log.Warn("Health check failed", nil, map[string]interface{}{
				"check": res.Name,
				"error": res.Error,
			})
		}
	}
	return report
}

func (r *Registry) run(ctx context.Context, name string, c Checker) Result {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	start := time.Now()
	err := safeCheck(ctx, c)
	res := Result{Name: name, Healthy: err == nil, Duration: time.Since(start)}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

func safeCheck(ctx context.Context, c Checker) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrCheckPanic, rec)
		}
	}()
	return c.Check(ctx)
}

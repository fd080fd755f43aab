package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type counter struct {
	count atomic.Int64
}

func (c *counter) Inc() { c.Add(1) }

func (c *counter) Dec() { c.Add(-1) }

func (c *counter) Add(delta int64) {
	c.count.Add(delta)
}

func (c *counter) Count() int64 { return c.count.Load() }

type meter struct {
	count atomic.Int64
}

// Mark ignores negative n; Prometheus counters only go up.
func (m *meter) Mark(n int64) {
	if n <= 0 {
		return
	}
	m.count.Add(n)
}

func (m *meter) Count() int64 { return m.count.Load() }

type timer struct {
	histogram prometheus.Histogram
	count     atomic.Int64
}

func (t *timer) Update(d time.Duration) {
	t.count.Add(1)
	t.histogram.Observe(d.Seconds())
}

func (t *timer) Time(fn func()) {
	start := time.Now()
	defer func() { t.Update(time.Since(start)) }()
	fn()
}

func (t *timer) Count() int64 { return t.count.Load() }

type histogram struct {
	histogram prometheus.Histogram
	count     atomic.Int64
}

func (h *histogram) Update(v float64) {
	h.count.Add(1)
	h.histogram.Observe(v)
}

func (h *histogram) Count() int64 { return h.count.Load() }

type gauge struct {
	fn func() float64
}

func (g gauge) Value() float64 { return g.fn() }

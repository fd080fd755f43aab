package metrics

import (
	"fmt"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aleph-Alpha/fxinstrument/v1/naming"
)

// Counter returns the counter named name, registering it on first use. It is
// exported as a Prometheus gauge since it can go down.
func (m *Metrics) Counter(name *naming.MetricName) (Counter, error) {
	obs, err := m.getOrRegister(name, naming.KindCounter, func() any { return &counter{} })
	if err != nil {
		return nil, err
	}
	return obs.(Counter), nil
}

// Meter returns the meter named name, exported as a Prometheus counter with
// a "_total" suffix.
func (m *Metrics) Meter(name *naming.MetricName) (Meter, error) {
	obs, err := m.getOrRegister(name, naming.KindMeter, func() any { return &meter{} })
	if err != nil {
		return nil, err
	}
	return obs.(Meter), nil
}

// Timer returns the timer named name, exported as a histogram of seconds
// with a "_seconds" suffix.
func (m *Metrics) Timer(name *naming.MetricName) (Timer, error) {
	obs, err := m.getOrRegister(name, naming.KindTimer, func() any {
		return &timer{histogram: createHistogram(m.buckets)}
	})
	if err != nil {
		return nil, err
	}
	return obs.(Timer), nil
}

// Histogram returns the histogram named name.
func (m *Metrics) Histogram(name *naming.MetricName) (Histogram, error) {
	obs, err := m.getOrRegister(name, naming.KindHistogram, func() any {
		return &histogram{histogram: createHistogram(prometheus.DefBuckets)}
	})
	if err != nil {
		return nil, err
	}
	return obs.(Histogram), nil
}

// Gauge registers fn under name. A repeated registration keeps the first fn.
func (m *Metrics) Gauge(name *naming.MetricName, fn func() float64) (Gauge, error) {
	if fn == nil {
		fn = func() float64 { return 0 }
	}
	obs, err := m.getOrRegister(name, naming.KindGauge, func() any { return gauge{fn: fn} })
	if err != nil {
		return nil, err
	}
	return obs.(Gauge), nil
}

// Unregister removes the observable named name.
func (m *Metrics) Unregister(name *naming.MetricName) bool {
	if name == nil {
		return false
	}
	key := naming.Format(name)

	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.observables[key]
	if !ok {
		return false
	}
	delete(m.observables, key)
	delete(e.family.members, key)
	if len(e.family.members) == 0 {
		delete(m.families, e.family.name)
	}
	return true
}

// Names returns the registered formatted names, sorted.
func (m *Metrics) Names() []string {
	m.mu.Lock()
	names := make([]string, 0, len(m.observables))
	for k := range m.observables {
		names = append(names, k)
	}
	m.mu.Unlock()

	slices.Sort(names)
	return names
}

func (m *Metrics) getOrRegister(name *naming.MetricName, kind naming.Kind, build func() any) (any, error) {
	if name == nil {
		return nil, ErrNilName
	}
	key := naming.Format(name)

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.observables[key]; ok {
		if e.kind != kind {
			return nil, fmt.Errorf("%w: %q is a %s, requested a %s", ErrNameCollision, key, e.kind, kind)
		}
		return e.observable, nil
	}

	fqName := m.exportName(name, kind)
	labels := exportLabels(name)

	f, ok := m.families[fqName]
	if !ok {
		f = &family{
			name:    fqName,
			help:    fmt.Sprintf("%s %s", name.Name(), kind),
			kind:    kind,
			members: map[string]*entry{},
		}
	}
	if f.kind != kind {
		return nil, fmt.Errorf("%w: %q exports as %s, already a %s", ErrNameCollision, key, fqName, f.kind)
	}
	id := identity(labels)
	for other, e := range f.members {
		if identity(e.labels) == id {
			return nil, fmt.Errorf("%w: %q exports the same series as %q", ErrNameCollision, key, other)
		}
	}

	e := &entry{kind: kind, family: f, labels: labels, observable: build()}
	f.members[key] = e
	m.families[fqName] = f
	m.observables[key] = e
	return e.observable, nil
}

// exportName maps a metric name to its Prometheus name: the namespace and the
// sanitized base name with a kind suffix.
func (m *Metrics) exportName(name *naming.MetricName, kind naming.Kind) string {
	base := sanitize(name.Name())
	switch kind {
	case naming.KindMeter:
		base += "_total"
	case naming.KindTimer:
		base += "_seconds"
	}
	return prometheus.BuildFQName(m.namespace, "", base)
}

// exportLabels maps tags to label names and values.
func exportLabels(name *naming.MetricName) map[string]string {
	labels := map[string]string{}
	for k, v := range name.Tags() {
		labels[sanitizeLabel(k)] = v
	}
	return labels
}

// createHistogram defines an unregistered histogram used for bucketing.
func createHistogram(buckets []float64) prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "observations",
		Buckets: buckets,
	})
}

// sanitize replaces every character Prometheus does not allow in metric
// names with '_'.
func sanitize(s string) string {
	return sanitizeWith(s, func(r rune) bool { return r == ':' })
}

// sanitizeLabel is sanitize for label names, which may not contain ':'.
func sanitizeLabel(s string) string {
	return sanitizeWith(s, func(rune) bool { return false })
}

func sanitizeWith(s string, extra func(rune) bool) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range s {
		valid := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || extra(r) ||
			(i > 0 && r >= '0' && r <= '9')
		switch {
		case valid:
			b.WriteRune(r)
		case i == 0 && r >= '0' && r <= '9':
			b.WriteByte('_')
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

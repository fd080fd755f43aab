package metrics

import (
	"fmt"
	"maps"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/Aleph-Alpha/fxinstrument/v1/naming"
)

// family groups the observables exported under one Prometheus metric name.
// Members may carry different tag keys; on collection every member is
// labelled with the union of the family's label names, missing ones empty.
type family struct {
	name    string
	help    string
	kind    naming.Kind
	members map[string]*entry
}

// labelNames returns the sorted union of the members' label names.
func (f *family) labelNames() []string {
	set := map[string]struct{}{}
	for _, e := range f.members {
		for k := range e.labels {
			set[k] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// identity is the member's label set with empty values dropped. Two members
// with the same identity would export the same series.
func identity(labels map[string]string) string {
	var b []byte
	for _, k := range slices.Sorted(maps.Keys(labels)) {
		if labels[k] == "" {
			continue
		}
		b = append(b, k...)
		b = append(b, 0)
		b = append(b, labels[k]...)
		b = append(b, 0)
	}
	return string(b)
}

// familyCollector exports every observable of a Metrics. It is unchecked:
// the label names of a family grow as new tag keys are registered, so no
// descriptor is fixed up front.
type familyCollector struct {
	m *Metrics
}

func (c familyCollector) Describe(chan<- *prometheus.Desc) {}

func (c familyCollector) Collect(ch chan<- prometheus.Metric) {
	type snapshot struct {
		desc    *prometheus.Desc
		names   []string
		members []*entry
	}

	c.m.mu.Lock()
	snaps := make([]snapshot, 0, len(c.m.families))
	for _, f := range c.m.families {
		names := f.labelNames()
		snaps = append(snaps, snapshot{
			desc:    prometheus.NewDesc(f.name, f.help, names, nil),
			names:   names,
			members: slices.Collect(maps.Values(f.members)),
		})
	}
	c.m.mu.Unlock()

	for _, s := range snaps {
		for _, e := range s.members {
			values := make([]string, len(s.names))
			for i, n := range s.names {
				values[i] = e.labels[n]
			}
			metric, err := e.collect(s.desc, values)
			if err != nil {
				metric = prometheus.NewInvalidMetric(s.desc, err)
			}
			ch <- metric
		}
	}
}

// collect samples the observable as a constant metric with the given label
// values.
func (e *entry) collect(desc *prometheus.Desc, values []string) (prometheus.Metric, error) {
	switch obs := e.observable.(type) {
	case *counter:
		return prometheus.NewConstMetric(desc, prometheus.GaugeValue, float64(obs.Count()), values...)
	case *meter:
		return prometheus.NewConstMetric(desc, prometheus.CounterValue, float64(obs.Count()), values...)
	case *timer:
		return constHistogram(desc, obs.histogram, values)
	case *histogram:
		return constHistogram(desc, obs.histogram, values)
	case gauge:
		return prometheus.NewConstMetric(desc, prometheus.GaugeValue, obs.Value(), values...)
	default:
		return nil, fmt.Errorf("metrics: unexpected observable %T", obs)
	}
}

func constHistogram(desc *prometheus.Desc, h prometheus.Histogram, values []string) (prometheus.Metric, error) {
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		return nil, err
	}
	hist := m.GetHistogram()
	buckets := make(map[float64]uint64, len(hist.GetBucket()))
	for _, b := range hist.GetBucket() {
		buckets[b.GetUpperBound()] = b.GetCumulativeCount()
	}
	return prometheus.NewConstHistogram(desc, hist.GetSampleCount(), hist.GetSampleSum(), buckets, values...)
}

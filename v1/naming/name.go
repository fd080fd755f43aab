package naming

import (
	"maps"
	"strconv"
)

// Kind is the kind of observable being named.
type Kind int

const (
	// KindCounter is an up/down counter.
	KindCounter Kind = iota
	// KindGauge is a sampled value.
	KindGauge
	// KindMeter is a monotonic event count.
	KindMeter
	// KindTimer is a latency distribution.
	KindTimer
	// KindHistogram is a value distribution.
	KindHistogram
)

func (k Kind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindGauge:
		return "gauge"
	case KindMeter:
		return "meter"
	case KindTimer:
		return "timer"
	case KindHistogram:
		return "histogram"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// MetricName is a base name plus tags. The setters mutate the receiver and
// return it so calls can be chained.
type MetricName struct {
	name string
	tags map[string]string
}

// NewMetricName returns an empty name.
func NewMetricName() *MetricName {
	return &MetricName{tags: map[string]string{}}
}

// Name returns the base name.
func (n *MetricName) Name() string {
	return n.name
}

// SetName replaces the base name.
func (n *MetricName) SetName(name string) *MetricName {
	n.name = name
	return n
}

// AddTag sets one tag, replacing an existing value for key.
func (n *MetricName) AddTag(key, value string) *MetricName {
	if n.tags == nil {
		n.tags = map[string]string{}
	}
	n.tags[key] = value
	return n
}

// AddTags sets every tag of tags.
func (n *MetricName) AddTags(tags map[string]string) *MetricName {
	for k, v := range tags {
		n.AddTag(k, v)
	}
	return n
}

// Tag returns the value of key.
func (n *MetricName) Tag(key string) (string, bool) {
	v, ok := n.tags[key]
	return v, ok
}

// Tags returns a copy of the tags.
func (n *MetricName) Tags() map[string]string {
	return maps.Clone(n.tags)
}

// HasTags reports whether any tag is set.
func (n *MetricName) HasTags() bool {
	return len(n.tags) > 0
}

// Clone returns an independent copy.
func (n *MetricName) Clone() *MetricName {
	return &MetricName{name: n.name, tags: maps.Clone(n.tags)}
}

// String returns Format(n).
func (n *MetricName) String() string {
	return Format(n)
}

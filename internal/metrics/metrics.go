// Package metrics provides Prometheus metrics for icon resolution.
package metrics

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/justyntemme/shellicon/internal/icon"
)

// Metrics implements icon.Observer on top of its own Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	lookupsTotal     *prometheus.CounterVec
	resolutionsTotal *prometheus.CounterVec
	handlesReleased  prometheus.Counter
}

var _ icon.Observer = (*Metrics)(nil)

// New creates the collectors and registers them in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		lookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shellicon_cache_lookups_total",
				Help: "Extension cache lookups by result",
			},
			[]string{"result"},
		),
		resolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shellicon_resolutions_total",
				Help: "Native icon resolutions by path kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		handlesReleased: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "shellicon_handles_released_total",
				Help: "Native icon handles destroyed",
			},
		),
	}
}

// Registry returns the registry holding every collector, for exposition.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Lookup records a cache lookup.
func (m *Metrics) Lookup(ext string, result icon.LookupResult) {
	m.lookupsTotal.WithLabelValues(string(result)).Inc()
}

// Resolved records a native resolution.
func (m *Metrics) Resolved(kind icon.Kind, outcome icon.Outcome, released int) {
	m.resolutionsTotal.WithLabelValues(string(kind), string(outcome)).Inc()
	if released > 0 {
		m.handlesReleased.Add(float64(released))
	}
}

// Sample is one counter value.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Snapshot gathers the current counter values, sorted by name then labels.
func (m *Metrics) Snapshot() ([]Sample, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	var samples []Sample
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			labels := make(map[string]string, len(metric.GetLabel()))
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			samples = append(samples, Sample{
				Name:   mf.GetName(),
				Labels: labels,
				Value:  metric.GetCounter().GetValue(),
			})
		}
	}

	sort.SliceStable(samples, func(i, j int) bool {
		if samples[i].Name != samples[j].Name {
			return samples[i].Name < samples[j].Name
		}
		return labelKey(samples[i].Labels) < labelKey(samples[j].Labels)
	})
	return samples, nil
}

// Value returns the counter value for name with exactly the given labels,
// or 0 if it has not been recorded.
func (m *Metrics) Value(name string, labels map[string]string) float64 {
	samples, err := m.Snapshot()
	if err != nil {
		return 0
	}
	want := labelKey(labels)
	for _, s := range samples {
		if s.Name == name && labelKey(s.Labels) == want {
			return s.Value
		}
	}
	return 0
}

func labelKey(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for _, k := range keys {
		out += k + "=" + labels[k] + ","
	}
	return out
}

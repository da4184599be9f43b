// Package promadapters exposes engine metrics as Prometheus collectors.
//
// Usage:
//
//	registry := prometheus.NewRegistry()
//	engine, err := placement.NewEngine(placement.WithMetrics(promadapters.NewMetricsCollector(registry)))
package promadapters

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matthewryanscott/cubecad/voxelspace"
)

const (
	helpDuration = "CubeCAD operation duration in seconds"
	helpCounter  = "CubeCAD operation counter"
	helpGauge    = "CubeCAD current value"
)

// MetricsCollector implements voxelspace.MetricsCollector with Prometheus vectors.
//
// A vector is registered the first time its metric name is recorded, and its label names
// are fixed by that first call. Later calls fill labels it does not carry with "" and drop
// labels it does not know.
type MetricsCollector struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	histograms map[string]vector[*prometheus.HistogramVec]
	counters   map[string]vector[*prometheus.CounterVec]
	gauges     map[string]vector[*prometheus.GaugeVec]
}

type vector[V prometheus.Collector] struct {
	vec        V
	labelNames []string
}

// labels shapes the given labels to the vector's label names.
func (v vector[V]) labels(given map[string]string) prometheus.Labels {
	shaped := make(prometheus.Labels, len(v.labelNames))
	for _, name := range v.labelNames {
		shaped[name] = given[name]
	}

	return shaped
}

// NewMetricsCollector creates a collector registering its vectors with registerer.
// A nil registerer means prometheus.DefaultRegisterer.
func NewMetricsCollector(registerer prometheus.Registerer) *MetricsCollector {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &MetricsCollector{
		registerer: registerer,
		histograms: make(map[string]vector[*prometheus.HistogramVec]),
		counters:   make(map[string]vector[*prometheus.CounterVec]),
		gauges:     make(map[string]vector[*prometheus.GaugeVec]),
	}
}

// RecordDuration observes duration in seconds on a histogram.
func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.histograms[metric]
	if !ok {
		names := labelNames(labels)
		v = vector[*prometheus.HistogramVec]{
			vec: register(m.registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    metric,
				Help:    helpDuration,
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			}, names)),
			labelNames: names,
		}
		m.histograms[metric] = v
	}

	v.vec.With(v.labels(labels)).Observe(duration.Seconds())
}

// IncrementCounter adds one to a counter.
func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.counters[metric]
	if !ok {
		names := labelNames(labels)
		v = vector[*prometheus.CounterVec]{
			vec: register(m.registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: metric,
				Help: helpCounter,
			}, names)),
			labelNames: names,
		}
		m.counters[metric] = v
	}

	v.vec.With(v.labels(labels)).Inc()
}

// RecordValue sets a gauge.
func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.gauges[metric]
	if !ok {
		names := labelNames(labels)
		v = vector[*prometheus.GaugeVec]{
			vec: register(m.registerer, prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: metric,
				Help: helpGauge,
			}, names)),
			labelNames: names,
		}
		m.gauges[metric] = v
	}

	v.vec.With(v.labels(labels)).Set(value)
}

// register registers c, reusing an identical collector registered before.
func register[C prometheus.Collector](registerer prometheus.Registerer, c C) C {
	if err := registerer.Register(c); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			if existing, ok := alreadyRegistered.ExistingCollector.(C); ok {
				return existing
			}
		}
	}

	return c
}

func labelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

var _ voxelspace.MetricsCollector = (*MetricsCollector)(nil)

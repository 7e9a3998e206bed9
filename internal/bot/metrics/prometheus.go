package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "steambot"

// PrometheusMetrics registers collectors lazily on first use. The label set of
// a series is fixed by its first observation; later calls with different label
// names are dropped.
type PrometheusMetrics struct {
	factory promauto.Factory

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	labelSets  map[string][]string
	histograms map[string]prometheus.Histogram
	gauges     map[string]prometheus.Gauge
}

func NewPrometheusMetrics(registry prometheus.Registerer) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	return &PrometheusMetrics{
		factory:    promauto.With(registry),
		counters:   make(map[string]*prometheus.CounterVec),
		labelSets:  make(map[string][]string),
		histograms: make(map[string]prometheus.Histogram),
		gauges:     make(map[string]prometheus.Gauge),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string) {
	m.IncrementCounterWithLabels(name, nil)
}

func (m *PrometheusMetrics) IncrementCounterWithLabels(name string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	vec, ok := m.counters[name]
	if !ok {
		names := labelNames(labels)
		vec = m.factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      sanitize(name) + "_total",
			Help:      "Count of " + strings.ReplaceAll(name, "_", " ") + ".",
		}, names)
		m.counters[name] = vec
		m.labelSets[name] = names
	}

	values := make([]string, 0, len(labels))
	for _, k := range m.labelSets[name] {
		v, ok := labels[k]
		if !ok {
			return
		}
		values = append(values, v)
	}
	if len(values) != len(labels) {
		return
	}
	vec.WithLabelValues(values...).Inc()
}

func (m *PrometheusMetrics) RecordDuration(name string, duration time.Duration) {
	m.mu.Lock()
	h, ok := m.histograms[name]
	if !ok {
		h = m.factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      sanitize(name) + "_duration_seconds",
			Help:      "Duration of " + strings.ReplaceAll(name, "_", " ") + " in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		})
		m.histograms[name] = h
	}
	m.mu.Unlock()

	h.Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64) {
	m.mu.Lock()
	g, ok := m.gauges[name]
	if !ok {
		g = m.factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      sanitize(name),
			Help:      "Current " + strings.ReplaceAll(name, "_", " ") + ".",
		})
		m.gauges[name] = g
	}
	m.mu.Unlock()

	g.Set(value)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)
}

// Package metrics provides Prometheus metrics for analysis batches.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrNoTextfile is returned by WriteTextfile when no path was given.
var ErrNoTextfile = errors.New("metrics textfile path is empty")

// Video outcomes.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Comparison outcomes. Skipped is reported per skip reason label.
const (
	OutcomeMatch    = "match"
	OutcomeMismatch = "mismatch"
)

// Manager owns the batch metrics and the registry they live on. A nil
// *Manager is valid and records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         *prometheus.Registry

	videos      *prometheus.CounterVec
	comparisons *prometheus.CounterVec
	adjustments prometheus.Counter
	duration    prometheus.Histogram
}

// NewManager creates a manager on a fresh registry unless WithRegistry is
// given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "emocong",
		subsystem:        "analysis",
		histogramBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.videos = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "videos_total",
		Help:        "Videos processed, by outcome",
		ConstLabels: m.constLabels,
	}, []string{"status"})

	m.comparisons = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "comparisons_total",
		Help:        "Label comparisons, by metric and outcome",
		ConstLabels: m.constLabels,
	}, []string{"metric", "outcome"})

	m.adjustments = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "heuristic_adjustments_total",
		Help:        "Face predictions relabeled by the fear/anger heuristic",
		ConstLabels: m.constLabels,
	})

	m.duration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "duration_seconds",
		Help:        "Time spent analyzing one video",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
}

// Registry returns the registry to expose or gather from.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordVideo counts one video outcome.
func (m *Manager) RecordVideo(ok bool) {
	if m == nil {
		return
	}
	status := StatusOK
	if !ok {
		status = StatusFailed
	}
	m.videos.WithLabelValues(status).Inc()
}

// RecordComparisons adds n comparisons of one metric with the given outcome.
func (m *Manager) RecordComparisons(metric, outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.comparisons.WithLabelValues(metric, outcome).Add(float64(n))
}

// RecordAdjustments adds n heuristic relabels.
func (m *Manager) RecordAdjustments(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.adjustments.Add(float64(n))
}

// ObserveDuration records the analysis time of one video.
func (m *Manager) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.duration.Observe(d.Seconds())
}

// WriteTextfile writes the registry in the text exposition format, for the
// node_exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if path == "" {
		return ErrNoTextfile
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}

// Package metrics exposes changelog generation progress as Prometheus metrics.
// Runs are batch jobs, so metrics live on a private registry that is written
// out once at the end of a run for the node exporter's textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/qri-io/changelog"
)

const namespace = "changelog"

// Metrics implements changelog.Observer
type Metrics struct {
	registry *prometheus.Registry

	PhasesTotal     *prometheus.CounterVec
	PhaseDuration   *prometheus.HistogramVec
	TablesTotal     prometheus.Counter
	TableDuration   prometheus.Histogram
	RecordChanges   *prometheus.CounterVec
	LastSuccessTime prometheus.Gauge
}

var _ changelog.Observer = (*Metrics)(nil)

// New creates and registers all metrics for a version
func New(version string) *Metrics {
	labels := prometheus.Labels{"version": version}
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		PhasesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "phases_total",
			Help:        "Changelog phases by outcome (computed or loaded from the store)",
			ConstLabels: labels,
		}, []string{"phase", "source"}),
		PhaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "phase_duration_seconds",
			Help:        "Time spent computing a changelog phase",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"phase"}),
		TablesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "tables_diffed_total",
			Help:        "Total number of record tables diffed",
			ConstLabels: labels,
		}),
		TableDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "table_duration_seconds",
			Help:        "Time spent loading & diffing one record table",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		RecordChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "record_changes_total",
			Help:        "Changed records per table",
			ConstLabels: labels,
		}, []string{"table"}),
		LastSuccessTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "last_success_timestamp_seconds",
			Help:        "Unix time of the last successful run",
			ConstLabels: labels,
		}),
	}

	reg.MustRegister(m.PhasesTotal, m.PhaseDuration, m.TablesTotal, m.TableDuration, m.RecordChanges, m.LastSuccessTime)
	return m
}

// Registry returns the registry metrics are registered with
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// PhaseLoaded implements changelog.Observer
func (m *Metrics) PhaseLoaded(phase changelog.Artifact) {
	m.PhasesTotal.WithLabelValues(string(phase), "store").Inc()
}

// PhaseComputed implements changelog.Observer
func (m *Metrics) PhaseComputed(phase changelog.Artifact, elapsed time.Duration) {
	m.PhasesTotal.WithLabelValues(string(phase), "computed").Inc()
	m.PhaseDuration.WithLabelValues(string(phase)).Observe(elapsed.Seconds())
}

// TableDiffed implements changelog.Observer
func (m *Metrics) TableDiffed(table string, changes int, elapsed time.Duration) {
	m.TablesTotal.Inc()
	m.TableDuration.Observe(elapsed.Seconds())
	m.RecordChanges.WithLabelValues(table).Add(float64(changes))
}

// MarkSuccess records the completion time of a run
func (m *Metrics) MarkSuccess(t time.Time) {
	m.LastSuccessTime.Set(float64(t.Unix()))
}

// WriteTextfile writes all metrics in the text exposition format
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

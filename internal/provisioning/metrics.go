package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "langflow_bootstrap"

// Metrics records run counters in a private registry that can be exported
// as a node-exporter textfile once the run ends. A nil *Metrics is a no-op.
type Metrics struct {
	registry *prometheus.Registry

	loginAttempts *prometheus.CounterVec
	reconciled    *prometheus.CounterVec
	uploads       *prometheus.CounterVec
	phaseDuration *prometheus.HistogramVec
	lastRun       prometheus.Gauge
}

// NewMetrics creates and registers the run metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		loginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "login_attempts_total",
				Help:      "Login attempts by user and result",
			},
			[]string{"user", "result"},
		),
		reconciled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "reconcile_total",
				Help:      "Reconciled resources by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "flow_uploads_total",
				Help:      "Flow uploads by status",
			},
			[]string{"status"},
		),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "phase_duration_seconds",
				Help:      "Duration of provisioning phases in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
			},
			[]string{"phase", "result"},
		),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the metrics were exported",
		}),
	}

	m.registry.MustRegister(m.loginAttempts, m.reconciled, m.uploads, m.phaseDuration, m.lastRun)
	return m
}

// Registry returns the registry holding the run metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordLoginAttempt counts one login attempt for user.
func (m *Metrics) RecordLoginAttempt(user string, err error) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(user, result(err)).Inc()
}

// RecordReconcile counts one reconciled resource.
func (m *Metrics) RecordReconcile(kind string, created bool, err error) {
	if m == nil {
		return
	}
	outcome := "existing"
	switch {
	case err != nil:
		outcome = "failed"
	case created:
		outcome = "created"
	}
	m.reconciled.WithLabelValues(kind, outcome).Inc()
}

// RecordUpload counts one upload outcome.
func (m *Metrics) RecordUpload(status OutcomeStatus) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(string(status)).Inc()
}

// ObservePhase records the duration of a phase.
func (m *Metrics) ObservePhase(phase string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.phaseDuration.WithLabelValues(phase, result(err)).Observe(d.Seconds())
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	m.lastRun.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, m.registry)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

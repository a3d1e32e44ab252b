// Package metrics exposes Prometheus collectors for a check run.
//
// A nil *Metrics is valid and records nothing, so components can take one
// unconditionally.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "qado_check"

	// UnresolvedEndpoint labels checks where no endpoint gave an answer.
	UnresolvedEndpoint = "none"
)

type Metrics struct {
	probesTotal   *prometheus.CounterVec   // endpoint, verdict
	probeErrors   *prometheus.CounterVec   // endpoint, kind (transport|parse)
	probeDuration *prometheus.HistogramVec // endpoint

	checksTotal *prometheus.CounterVec // property, endpoint
	writeErrors prometheus.Counter

	candidates    prometheus.Gauge
	tasksInFlight prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		probesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "requests_total",
			Help:      "Probe requests by endpoint and verdict",
		}, []string{"endpoint", "verdict"}),

		probeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "errors_total",
			Help:      "Probe failures by endpoint and kind",
		}, []string{"endpoint", "kind"}),

		probeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "duration_seconds",
			Help:      "Probe request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 90},
		}, []string{"endpoint"}),

		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "check",
			Name:      "records_total",
			Help:      "Check records produced by property and corresponding endpoint",
		}, []string{"property", "endpoint"}),

		writeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "check",
			Name:      "write_errors_total",
			Help:      "Check records that could not be written",
		}),

		candidates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "candidates",
			Help:      "Candidate queries fetched for the current run",
		}),

		tasksInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tasks_in_flight",
			Help:      "Evaluation tasks currently running",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.probesTotal, m.probeErrors, m.probeDuration,
		m.checksTotal, m.writeErrors,
		m.candidates, m.tasksInFlight,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	return m, nil
}

func (m *Metrics) ObserveProbe(endpoint, verdict string, d time.Duration) {
	if m == nil {
		return
	}
	m.probesTotal.WithLabelValues(endpoint, verdict).Inc()
	m.probeDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metrics) ProbeError(endpoint, kind string) {
	if m == nil {
		return
	}
	m.probeErrors.WithLabelValues(endpoint, kind).Inc()
}

func (m *Metrics) CheckRecorded(property, endpoint string) {
	if m == nil {
		return
	}
	if endpoint == "" {
		endpoint = UnresolvedEndpoint
	}
	m.checksTotal.WithLabelValues(property, endpoint).Inc()
}

func (m *Metrics) WriteFailed() {
	if m == nil {
		return
	}
	m.writeErrors.Inc()
}

func (m *Metrics) SetCandidates(n int) {
	if m == nil {
		return
	}
	m.candidates.Set(float64(n))
}

func (m *Metrics) TaskStarted() {
	if m == nil {
		return
	}
	m.tasksInFlight.Inc()
}

func (m *Metrics) TaskDone() {
	if m == nil {
		return
	}
	m.tasksInFlight.Dec()
}

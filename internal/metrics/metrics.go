// Package metrics exposes Prometheus metrics for BOM conversions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Conversion outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNoData   = "no_data"
	OutcomeHeader   = "header_not_found"
	OutcomeBadInput = "bad_input"
	OutcomeTimeout  = "timeout"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds the conversion metrics and the registry they are registered with.
//
// Metrics:
//   - bomconv_conversions_total{format,outcome} - conversions by input format and outcome
//   - bomconv_conversion_duration_seconds{format} - conversion latency
//   - bomconv_warnings_total{kind} - warnings emitted, by kind
//   - bomconv_bom_lines_total - BOM lines returned
//   - bomconv_active_conversions - conversions currently running
type Metrics struct {
	registry *prometheus.Registry

	ConversionsTotal   *prometheus.CounterVec
	ConversionDuration *prometheus.HistogramVec
	WarningsTotal      *prometheus.CounterVec
	LinesTotal         prometheus.Counter
	ActiveConversions  prometheus.Gauge
}

// New creates the metrics on a fresh registry that also carries the Go and process
// collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bomconv_conversions_total",
				Help: "Total number of BOM conversions by input format and outcome",
			},
			[]string{"format", "outcome"},
		),
		ConversionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bomconv_conversion_duration_seconds",
				Help:    "Duration of BOM conversions in seconds",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"format"},
		),
		WarningsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bomconv_warnings_total",
				Help: "Total number of conversion warnings by kind",
			},
			[]string{"kind"},
		),
		LinesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bomconv_bom_lines_total",
				Help: "Total number of aggregated BOM lines returned",
			},
		),
		ActiveConversions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bomconv_active_conversions",
				Help: "Number of conversions currently running",
			},
		),
	}
}

// ObserveConversion records one finished conversion.
func (m *Metrics) ObserveConversion(format, outcome string, elapsed time.Duration) {
	if format == "" {
		format = "unknown"
	}
	m.ConversionsTotal.WithLabelValues(format, outcome).Inc()
	m.ConversionDuration.WithLabelValues(format).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

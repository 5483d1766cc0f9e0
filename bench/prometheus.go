package bench

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector exports benchmark measurements as Prometheus metrics.
type PrometheusCollector struct {
	construction     prometheus.Histogram
	constructionErrs prometheus.Counter
	vectorsBuilt     prometheus.Counter
	runs             prometheus.Counter
	runLatency       *prometheus.HistogramVec
	speedup          prometheus.Gauge
	relativeError    prometheus.Gauge
	auditMaxRelErr   prometheus.Gauge
	auditMeanRelErr  prometheus.Gauge
}

// NewPrometheusCollector creates the collector and registers its metrics
// with reg. It panics if a metric is already registered.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	p := &PrometheusCollector{
		construction: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hybridvec_construction_seconds",
			Help:    "Time to build all hybrid vectors of the dataset.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		constructionErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hybridvec_construction_errors_total",
			Help: "Failed dataset constructions.",
		}),
		vectorsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hybridvec_vectors_built_total",
			Help: "Hybrid vectors constructed.",
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hybridvec_runs_total",
			Help: "Completed timed runs.",
		}),
		runLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hybridvec_run_seconds",
			Help:    "Wall time of one timed run by implementation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"impl"}),
		speedup: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hybridvec_speedup_ratio",
			Help: "Regular time divided by hybrid time for the last run.",
		}),
		relativeError: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hybridvec_relative_error",
			Help: "Relative error of the hybrid distance total for the last run.",
		}),
		auditMaxRelErr: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hybridvec_audit_max_relative_error",
			Help: "Largest per-pair relative error seen by the audit.",
		}),
		auditMeanRelErr: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hybridvec_audit_mean_relative_error",
			Help: "Mean per-pair relative error seen by the audit.",
		}),
	}

	reg.MustRegister(
		p.construction,
		p.constructionErrs,
		p.vectorsBuilt,
		p.runs,
		p.runLatency,
		p.speedup,
		p.relativeError,
		p.auditMaxRelErr,
		p.auditMeanRelErr,
	)
	return p
}

// RecordConstruction implements MetricsCollector.
func (p *PrometheusCollector) RecordConstruction(count int, duration time.Duration, err error) {
	if err != nil {
		p.constructionErrs.Inc()
		return
	}
	p.construction.Observe(duration.Seconds())
	p.vectorsBuilt.Add(float64(count))
}

// RecordRun implements MetricsCollector.
func (p *PrometheusCollector) RecordRun(r RunResult) {
	p.runs.Inc()
	p.runLatency.WithLabelValues("hybrid").Observe(r.Hybrid.Seconds())
	p.runLatency.WithLabelValues("regular").Observe(r.Regular.Seconds())
	p.speedup.Set(r.Speedup)
	p.relativeError.Set(r.RelativeError)
}

// RecordAudit implements MetricsCollector.
func (p *PrometheusCollector) RecordAudit(a Audit) {
	p.auditMaxRelErr.Set(a.MaxRelativeError)
	p.auditMeanRelErr.Set(a.MeanRelativeError)
}

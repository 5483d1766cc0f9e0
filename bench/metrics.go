package bench

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// MetricsCollector receives benchmark measurements as they are produced.
// Implement it to forward results to a monitoring system; see
// PrometheusCollector for a ready-made implementation.
type MetricsCollector interface {
	// RecordConstruction is called once after all hybrid vectors are built.
	RecordConstruction(count int, duration time.Duration, err error)

	// RecordRun is called after each timed run.
	RecordRun(r RunResult)

	// RecordAudit is called after the per-pair accuracy audit.
	RecordAudit(a Audit)
}

// NoopMetricsCollector discards all measurements.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordConstruction(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRun(RunResult)                          {}
func (NoopMetricsCollector) RecordAudit(Audit)                            {}

// BasicMetricsCollector keeps simple in-memory counters.
type BasicMetricsCollector struct {
	ConstructionCount  atomic.Int64
	ConstructionErrors atomic.Int64
	ConstructionNanos  atomic.Int64
	VectorsBuilt       atomic.Int64
	RunCount           atomic.Int64
	HybridTotalNanos   atomic.Int64
	RegularTotalNanos  atomic.Int64
	AuditCount         atomic.Int64

	mu              sync.Mutex
	bestSpeedup     float64
	worstSpeedup    float64
	maxRelativeErr  float64
	auditMaxRelErr  float64
	initializedRuns bool
}

// RecordConstruction implements MetricsCollector.
func (b *BasicMetricsCollector) RecordConstruction(count int, duration time.Duration, err error) {
	b.ConstructionCount.Add(1)
	if err != nil {
		b.ConstructionErrors.Add(1)
		return
	}
	b.ConstructionNanos.Add(duration.Nanoseconds())
	b.VectorsBuilt.Add(int64(count))
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(r RunResult) {
	b.RunCount.Add(1)
	b.HybridTotalNanos.Add(r.Hybrid.Nanoseconds())
	b.RegularTotalNanos.Add(r.Regular.Nanoseconds())

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initializedRuns {
		b.bestSpeedup, b.worstSpeedup = r.Speedup, r.Speedup
		b.initializedRuns = true
	}
	b.bestSpeedup = math.Max(b.bestSpeedup, r.Speedup)
	b.worstSpeedup = math.Min(b.worstSpeedup, r.Speedup)
	b.maxRelativeErr = math.Max(b.maxRelativeErr, r.RelativeError)
}

// RecordAudit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAudit(a Audit) {
	b.AuditCount.Add(1)

	b.mu.Lock()
	b.auditMaxRelErr = math.Max(b.auditMaxRelErr, a.MaxRelativeError)
	b.mu.Unlock()
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	runs := b.RunCount.Load()
	return BasicMetricsStats{
		ConstructionCount:   b.ConstructionCount.Load(),
		ConstructionErrors:  b.ConstructionErrors.Load(),
		VectorsBuilt:        b.VectorsBuilt.Load(),
		RunCount:            runs,
		HybridAvgNanos:      avgNanos(b.HybridTotalNanos.Load(), runs),
		RegularAvgNanos:     avgNanos(b.RegularTotalNanos.Load(), runs),
		BestSpeedup:         b.bestSpeedup,
		WorstSpeedup:        b.worstSpeedup,
		MaxRelativeError:    b.maxRelativeErr,
		AuditCount:          b.AuditCount.Load(),
		AuditMaxRelativeErr: b.auditMaxRelErr,
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ConstructionCount   int64
	ConstructionErrors  int64
	VectorsBuilt        int64
	RunCount            int64
	HybridAvgNanos      int64
	RegularAvgNanos     int64
	BestSpeedup         float64
	WorstSpeedup        float64
	MaxRelativeError    float64
	AuditCount          int64
	AuditMaxRelativeErr float64
}

package bench

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hybridvec/blobstore"
	"github.com/hupe1980/hybridvec/distance"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.NumVectors = 6
	cfg.Dimension = 257
	cfg.Iterations = 2
	cfg.Runs = 3
	cfg.Seed = 42
	cfg.Workers = 2
	cfg.ProgressInterval = 0
	return cfg
}

func TestNewRunner_InvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Runs = 0

	_, err := NewRunner(cfg)

	var cfgErr *ErrInvalidConfig
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "runs", cfgErr.Field)
}

func TestRunner_Run(t *testing.T) {
	for _, fb := range []int{32, 64} {
		for _, cb := range []int{8, 16, 32} {
			for _, metric := range []distance.Metric{distance.MetricSquaredL2, distance.MetricL2} {
				t.Run(fmt.Sprintf("f%d_q%d_%s", fb, cb, metric), func(t *testing.T) {
					cfg := smallConfig()
					cfg.FloatBits = fb
					cfg.CodeBits = cb
					cfg.Metric = metric

					r, err := NewRunner(cfg)
					require.NoError(t, err)

					report, err := r.Run(context.Background())
					require.NoError(t, err)

					require.Len(t, report.Runs, 3)
					for i, run := range report.Runs {
						assert.Equal(t, i+1, run.Run)
						assert.Positive(t, run.Hybrid)
						assert.Positive(t, run.Regular)
						assert.Positive(t, run.Speedup)
						assert.Positive(t, run.RegularTotal)
						assert.Less(t, run.RelativeError, 0.05)
					}
					assert.Equal(t, 3, report.Speedup.Count)
					assert.Equal(t, int64(42), report.Seed)
					assert.NotEmpty(t, report.ISA)
					assert.Contains(t, []string{"lanes", "generic"}, report.Kernels)

					assert.Equal(t, 5, report.Audit.Pairs)
					assert.Less(t, report.Audit.MaxRelativeError, 0.1)
					assert.LessOrEqual(t, report.Audit.MeanRelativeError, report.Audit.MaxRelativeError)

					assert.Positive(t, report.HybridBytes)
					assert.LessOrEqual(t, report.HybridBytes, report.FullBytes)
				})
			}
		}
	}
}

func TestRunner_Deterministic(t *testing.T) {
	run := func() *Report {
		r, err := NewRunner(smallConfig())
		require.NoError(t, err)
		report, err := r.Run(context.Background())
		require.NoError(t, err)
		return report
	}

	a, b := run(), run()
	for i := range a.Runs {
		assert.Equal(t, a.Runs[i].HybridTotal, b.Runs[i].HybridTotal)
		assert.Equal(t, a.Runs[i].RegularTotal, b.Runs[i].RegularTotal)
	}
}

func TestRunner_WritesReport(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	r, err := NewRunner(smallConfig(), WithStore(store))
	require.NoError(t, err)
	_, err = r.Run(ctx)
	require.NoError(t, err)

	results, err := blobstore.ReadAll(ctx, store, ResultsFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(results)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "run,speedup,relative_error", lines[0])
	assert.True(t, strings.HasPrefix(lines[3], "3,"))

	stats, err := blobstore.ReadAll(ctx, store, StatsFile)
	require.NoError(t, err)
	assert.Contains(t, string(stats), "num_runs,3\n")
}

func TestRunner_Fixture(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	cfg := smallConfig()
	cfg.SaveFixture = "fixture.hvfx"
	cfg.FixtureCompression = "lz4"

	r, err := NewRunner(cfg, WithStore(store))
	require.NoError(t, err)
	first, err := r.Run(ctx)
	require.NoError(t, err)

	cfg = smallConfig()
	cfg.Seed = 0
	cfg.NumVectors = 1000 // ignored for fixtures
	cfg.Fixture = "fixture.hvfx"

	r, err = NewRunner(cfg, WithStore(store))
	require.NoError(t, err)
	second, err := r.Run(ctx)
	require.NoError(t, err)

	assert.Zero(t, second.Seed)
	assert.Equal(t, first.Audit.Pairs, second.Audit.Pairs)
	assert.Equal(t, first.Runs[0].RegularTotal, second.Runs[0].RegularTotal)
	assert.Equal(t, first.Runs[0].HybridTotal, second.Runs[0].HybridTotal)
}

func TestRunner_FixtureWithoutStore(t *testing.T) {
	cfg := smallConfig()
	cfg.Fixture = "x"

	r, err := NewRunner(cfg)
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.Error(t, err)
}

func TestRunner_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := NewRunner(smallConfig())
	require.NoError(t, err)

	_, err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTimeRun_ZeroBaseline(t *testing.T) {
	ds := NewDataset(2, 3, make([]float64, 6))
	rows := rowsAs[float64](ds)
	vecs, err := build[float64, uint8](context.Background(), rows, 1)
	require.NoError(t, err)

	_, err = timeRun(context.Background(), 1, vecs, rows, distance.HybridSquaredL2[float64, uint8], distance.SquaredL2[float64])
	assert.ErrorIs(t, err, ErrZeroBaseline)
}

func TestRunner_Metrics(t *testing.T) {
	basic := &BasicMetricsCollector{}

	r, err := NewRunner(smallConfig(), WithMetricsCollector(basic))
	require.NoError(t, err)
	_, err = r.Run(context.Background())
	require.NoError(t, err)

	stats := basic.GetStats()
	assert.Equal(t, int64(1), stats.ConstructionCount)
	assert.Equal(t, int64(6), stats.VectorsBuilt)
	assert.Equal(t, int64(3), stats.RunCount)
	assert.Positive(t, stats.HybridAvgNanos)
	assert.Positive(t, stats.BestSpeedup)
	assert.GreaterOrEqual(t, stats.BestSpeedup, stats.WorstSpeedup)
	assert.Equal(t, int64(1), stats.AuditCount)
}

func TestRunner_Prometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := NewPrometheusCollector(reg)

	r, err := NewRunner(smallConfig(), WithMetricsCollector(collector))
	require.NoError(t, err)
	_, err = r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3.0, promtest.ToFloat64(collector.runs))
	assert.Equal(t, 6.0, promtest.ToFloat64(collector.vectorsBuilt))
	assert.Positive(t, promtest.ToFloat64(collector.speedup))
	assert.Equal(t, 2, promtest.CollectAndCount(collector.runLatency))

	assert.Panics(t, func() { NewPrometheusCollector(reg) }, "duplicate registration")
}

func TestRunner_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r, err := NewRunner(smallConfig(), WithLogger(logger))
	require.NoError(t, err)
	_, err = r.Run(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "benchmark starting")
	assert.Contains(t, out, "construction completed")
	assert.Equal(t, 3, strings.Count(out, "msg=\"run completed\""))
	assert.Equal(t, 3, strings.Count(out, "msg=progress"))
	assert.Contains(t, out, "audit completed")
	assert.Contains(t, out, "float_bits=64")
}

package bench

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/hupe1980/hybridvec/blobstore"
)

// Report file names, relative to the store root.
const (
	ResultsFile = "speedup_results.csv"
	StatsFile   = "speedup_stats.csv"
	ConfigFile  = "run_config.yaml"
)

// RunResult is the outcome of one timed run.
type RunResult struct {
	// Run is 1-based.
	Run int

	Hybrid  time.Duration
	Regular time.Duration

	// HybridTotal and RegularTotal are the sums of all distances computed
	// during the run.
	HybridTotal  float64
	RegularTotal float64

	// Speedup is Regular/Hybrid.
	Speedup float64
	// RelativeError is |HybridTotal-RegularTotal| / RegularTotal.
	RelativeError float64
}

// Audit is the per-pair accuracy check run after timing.
type Audit struct {
	Pairs             int
	MeanRelativeError float64
	MaxRelativeError  float64
}

// Report collects everything a benchmark session measured.
type Report struct {
	Config Config
	// Seed is the seed the dataset was generated with, or zero for fixtures.
	Seed int64
	// ISA is the instruction set detected on the CPU. Kernels is the Go loop
	// variant it selected ("lanes" or "generic"); no assembly is involved.
	ISA     string
	Kernels string

	Construction time.Duration
	HybridBytes  int64
	FullBytes    int64

	Runs    []RunResult
	Speedup Summary
	Error   Summary
	Audit   Audit
}

// Summarize fills Speedup and Error from Runs.
func (r *Report) Summarize() {
	speedups := make([]float64, len(r.Runs))
	errs := make([]float64, len(r.Runs))
	for i, run := range r.Runs {
		speedups[i] = run.Speedup
		errs[i] = run.RelativeError
	}
	r.Speedup = Summarize(speedups)
	r.Error = Summarize(errs)
}

// MemoryRatio returns HybridBytes/FullBytes, or zero when FullBytes is zero.
func (r *Report) MemoryRatio() float64 {
	if r.FullBytes == 0 {
		return 0
	}
	return float64(r.HybridBytes) / float64(r.FullBytes)
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// EncodeResults renders the per-run table with header
// run,speedup,relative_error.
func (r *Report) EncodeResults() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"run", "speedup", "relative_error"}); err != nil {
		return nil, err
	}
	for _, run := range r.Runs {
		rec := []string{strconv.Itoa(run.Run), formatFloat(run.Speedup), formatFloat(run.RelativeError)}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// EncodeStats renders the summary table with header metric,value.
func (r *Report) EncodeStats() ([]byte, error) {
	rows := [][]string{
		{"metric", "value"},
		{"avg_speedup", formatFloat(r.Speedup.Mean)},
		{"min_speedup", formatFloat(r.Speedup.Min)},
		{"max_speedup", formatFloat(r.Speedup.Max)},
		{"avg_error", formatFloat(r.Error.Mean)},
		{"min_error", formatFloat(r.Error.Min)},
		{"max_error", formatFloat(r.Error.Max)},
		{"num_runs", strconv.Itoa(len(r.Runs))},
		{"std_speedup", formatFloat(r.Speedup.StdDev)},
		{"std_error", formatFloat(r.Error.StdDev)},
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport stores the results table, the stats table and the effective
// configuration.
func WriteReport(ctx context.Context, store blobstore.Store, r *Report, logger *Logger) error {
	if logger == nil {
		logger = NoopLogger()
	}

	cfg := r.Config
	cfg.Seed = r.Seed

	files := []struct {
		name   string
		encode func() ([]byte, error)
	}{
		{ResultsFile, r.EncodeResults},
		{StatsFile, r.EncodeStats},
		{ConfigFile, cfg.Encode},
	}

	for _, f := range files {
		data, err := f.encode()
		if err == nil {
			err = store.Put(ctx, f.name, data)
		}
		logger.LogReport(ctx, f.name, err)
		if err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}

package bench

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
	"unsafe"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/hybridvec"
	"github.com/hupe1980/hybridvec/distance"
	"github.com/hupe1980/hybridvec/internal/compress"
	"github.com/hupe1980/hybridvec/internal/simd"
)

// Runner executes a benchmark session: it prepares a dataset, builds hybrid
// vectors, times hybrid against full-precision distances, audits accuracy
// and writes the report.
type Runner struct {
	cfg  Config
	opts options
}

// NewRunner validates cfg and returns a Runner.
func NewRunner(cfg Config, optFns ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Runner{cfg: cfg, opts: opts}, nil
}

// Config returns the runner's configuration.
func (r *Runner) Config() Config {
	return r.cfg
}

// Run executes the session. If a store is configured, the report is also
// written to it. Cancelling ctx aborts between iterations.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	log := r.opts.logger.WithTypes(r.cfg.FloatBits, r.cfg.CodeBits)
	isa, kernels := simd.ActiveISA().String(), simd.Kernels()
	log.LogStart(ctx, r.cfg, isa, kernels)

	ds, err := r.dataset(ctx, log)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Config:  r.cfg,
		Seed:    ds.Seed,
		ISA:     isa,
		Kernels: kernels,
	}

	if err := r.dispatch(ctx, log, ds, report); err != nil {
		return nil, err
	}
	report.Summarize()

	if r.opts.store != nil {
		if err := WriteReport(ctx, r.opts.store, report, log); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (r *Runner) dataset(ctx context.Context, log *Logger) (*Dataset, error) {
	var ds *Dataset
	if r.cfg.Fixture != "" {
		if r.opts.store == nil {
			return nil, errors.New("bench: fixture requires a store")
		}
		loaded, err := LoadFixture(ctx, r.opts.store, r.cfg.Fixture)
		log.LogFixture(ctx, "load", r.cfg.Fixture, err)
		if err != nil {
			return nil, err
		}
		if loaded.Count < 2 {
			return nil, fmt.Errorf("%w: %d vectors, need at least 2", ErrFixtureCorrupt, loaded.Count)
		}
		ds = loaded
		log.LogDataset(ctx, ds, "fixture")
	} else {
		ds = Generate(r.cfg.NumVectors, r.cfg.Dimension, r.cfg.Min, r.cfg.Max, r.cfg.Seed)
		log.LogDataset(ctx, ds, "generated")
	}

	if r.cfg.SaveFixture != "" {
		if r.opts.store == nil {
			return nil, errors.New("bench: saving a fixture requires a store")
		}
		t, err := compress.ParseType(r.cfg.FixtureCompression)
		if err != nil {
			return nil, err
		}
		err = SaveFixture(ctx, r.opts.store, r.cfg.SaveFixture, ds, t)
		log.LogFixture(ctx, "save", r.cfg.SaveFixture, err)
		if err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func (r *Runner) dispatch(ctx context.Context, log *Logger, ds *Dataset, report *Report) error {
	switch [2]int{r.cfg.FloatBits, r.cfg.CodeBits} {
	case [2]int{32, 8}:
		return runTyped[float32, uint8](ctx, r, log, ds, report)
	case [2]int{32, 16}:
		return runTyped[float32, uint16](ctx, r, log, ds, report)
	case [2]int{32, 32}:
		return runTyped[float32, uint32](ctx, r, log, ds, report)
	case [2]int{64, 8}:
		return runTyped[float64, uint8](ctx, r, log, ds, report)
	case [2]int{64, 16}:
		return runTyped[float64, uint16](ctx, r, log, ds, report)
	case [2]int{64, 32}:
		return runTyped[float64, uint32](ctx, r, log, ds, report)
	default:
		return invalid("float_bits/code_bits", [2]int{r.cfg.FloatBits, r.cfg.CodeBits}, "unsupported combination")
	}
}

// rowsAs returns the dataset rows as F, aliasing the dataset when F is float64.
func rowsAs[F hybridvec.Float](ds *Dataset) [][]F {
	if rows, ok := any(ds.Rows()).([][]F); ok {
		return rows
	}
	rows := make([][]F, ds.Count)
	for i := range rows {
		src := ds.Vector(i)
		row := make([]F, len(src))
		for j, x := range src {
			row[j] = F(x)
		}
		rows[i] = row
	}
	return rows
}

// build constructs one hybrid vector per row using a bounded worker pool.
func build[F hybridvec.Float, Q hybridvec.Code](ctx context.Context, rows [][]F, workers int) ([]*hybridvec.Vector[F, Q], error) {
	vecs := make([]*hybridvec.Vector[F, Q], len(rows))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := hybridvec.New[F, Q](rows[i])
			if err != nil {
				return fmt.Errorf("vector %d: %w", i, err)
			}
			vecs[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vecs, nil
}

func runTyped[F hybridvec.Float, Q hybridvec.Code](ctx context.Context, r *Runner, log *Logger, ds *Dataset, report *Report) error {
	rows := rowsAs[F](ds)

	start := time.Now()
	vecs, err := build[F, Q](ctx, rows, r.cfg.EffectiveWorkers())
	report.Construction = time.Since(start)
	r.opts.metrics.RecordConstruction(len(rows), report.Construction, err)
	if err != nil {
		log.LogConstruction(ctx, len(rows), report.Construction, 0, 0, err)
		return err
	}

	var zero F
	for _, v := range vecs {
		report.HybridBytes += int64(v.MemoryBytes())
	}
	report.FullBytes = int64(ds.Count) * int64(ds.Dim) * int64(unsafe.Sizeof(zero))
	log.LogConstruction(ctx, len(rows), report.Construction, report.HybridBytes, report.FullBytes, nil)

	regular, err := distance.Provider[F](r.cfg.Metric)
	if err != nil {
		return err
	}
	hybrid, err := distance.HybridProvider[F, Q](r.cfg.Metric)
	if err != nil {
		return err
	}

	progress := rate.Sometimes{Interval: r.cfg.ProgressInterval}
	if r.cfg.ProgressInterval == 0 {
		progress = rate.Sometimes{Every: 1}
	}

	report.Runs = make([]RunResult, 0, r.cfg.Runs)
	for run := 1; run <= r.cfg.Runs; run++ {
		res, err := timeRun(ctx, r.cfg.Iterations, vecs, rows, hybrid, regular)
		if err != nil {
			return &ErrRunFailed{Run: run, cause: err}
		}
		res.Run = run

		report.Runs = append(report.Runs, res)
		r.opts.metrics.RecordRun(res)
		log.LogRun(ctx, res)
		progress.Do(func() {
			log.LogProgress(ctx, run, r.cfg.Runs, res)
		})
	}

	audit, err := auditPairs(ctx, vecs, rows, hybrid, regular, r.cfg.EffectiveWorkers())
	if err != nil {
		return err
	}
	report.Audit = audit
	r.opts.metrics.RecordAudit(audit)
	log.LogAudit(ctx, audit)
	return nil
}

// timeRun measures iterations passes over all consecutive pairs, first with
// the hybrid distance and then with the regular one.
func timeRun[F hybridvec.Float, Q hybridvec.Code](
	ctx context.Context,
	iterations int,
	vecs []*hybridvec.Vector[F, Q],
	rows [][]F,
	hybrid distance.HybridFunc[F, Q],
	regular distance.Func[F],
) (RunResult, error) {
	var res RunResult

	start := time.Now()
	for it := 0; it < iterations; it++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		for i := 0; i+1 < len(vecs); i++ {
			d, err := hybrid(vecs[i], vecs[i+1])
			if err != nil {
				return res, err
			}
			res.HybridTotal += float64(d)
		}
	}
	res.Hybrid = max(time.Since(start), time.Nanosecond)

	start = time.Now()
	for it := 0; it < iterations; it++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		for i := 0; i+1 < len(rows); i++ {
			res.RegularTotal += float64(regular(rows[i], rows[i+1]))
		}
	}
	res.Regular = max(time.Since(start), time.Nanosecond)

	if res.RegularTotal == 0 {
		return res, ErrZeroBaseline
	}
	res.Speedup = res.Regular.Seconds() / res.Hybrid.Seconds()
	res.RelativeError = math.Abs(res.HybridTotal-res.RegularTotal) / res.RegularTotal
	return res, nil
}

// auditPairs computes the relative error of every consecutive pair once.
// Pairs whose regular distance is zero are skipped.
func auditPairs[F hybridvec.Float, Q hybridvec.Code](
	ctx context.Context,
	vecs []*hybridvec.Vector[F, Q],
	rows [][]F,
	hybrid distance.HybridFunc[F, Q],
	regular distance.Func[F],
	workers int,
) (Audit, error) {
	pairs := len(vecs) - 1
	relErrs := make([]float64, pairs)
	valid := make([]bool, pairs)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < pairs; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			h, err := hybrid(vecs[i], vecs[i+1])
			if err != nil {
				return fmt.Errorf("pair %d: %w", i, err)
			}
			want := float64(regular(rows[i], rows[i+1]))
			if want == 0 {
				return nil
			}
			relErrs[i] = math.Abs(float64(h)-want) / want
			valid[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Audit{}, err
	}

	kept := relErrs[:0]
	for i, ok := range valid {
		if ok {
			kept = append(kept, relErrs[i])
		}
	}
	a := Audit{Pairs: len(kept)}
	if len(kept) > 0 {
		a.MeanRelativeError = stat.Mean(kept, nil)
		a.MaxRelativeError = floats.Max(kept)
	}
	return a, nil
}

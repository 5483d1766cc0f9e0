package bench

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with benchmark-specific helpers so every phase
// logs with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, a text handler writing to stderr at info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that writes JSON to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithRun adds a run field to the logger.
func (l *Logger) WithRun(run int) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", run),
	}
}

// WithTypes adds the element type fields to the logger.
func (l *Logger) WithTypes(floatBits, codeBits int) *Logger {
	return &Logger{
		Logger: l.Logger.With("float_bits", floatBits, "code_bits", codeBits),
	}
}

// LogStart logs the effective configuration.
func (l *Logger) LogStart(ctx context.Context, cfg Config, isa, kernels string) {
	l.InfoContext(ctx, "benchmark starting",
		"vectors", cfg.NumVectors,
		"dimension", cfg.Dimension,
		"iterations", cfg.Iterations,
		"runs", cfg.Runs,
		"metric", cfg.Metric.String(),
		"workers", cfg.EffectiveWorkers(),
		"isa", isa,
		"kernels", kernels,
	)
}

// LogDataset logs where the dataset came from.
func (l *Logger) LogDataset(ctx context.Context, ds *Dataset, source string) {
	l.InfoContext(ctx, "dataset ready",
		"source", source,
		"count", ds.Count,
		"dimension", ds.Dim,
		"seed", ds.Seed,
	)
}

// LogFixture logs a fixture load or save.
func (l *Logger) LogFixture(ctx context.Context, op, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fixture "+op+" failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "fixture "+op+" completed",
			"name", name,
		)
	}
}

// LogConstruction logs hybrid vector construction.
func (l *Logger) LogConstruction(ctx context.Context, count int, d time.Duration, hybridBytes, fullBytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "construction failed",
			"count", count,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "construction completed",
			"count", count,
			"duration", d,
			"hybrid_bytes", hybridBytes,
			"full_bytes", fullBytes,
		)
	}
}

// LogRun logs a single timed run at debug level.
func (l *Logger) LogRun(ctx context.Context, r RunResult) {
	l.DebugContext(ctx, "run completed",
		"run", r.Run,
		"hybrid", r.Hybrid,
		"regular", r.Regular,
		"speedup", r.Speedup,
		"relative_error", r.RelativeError,
	)
}

// LogProgress logs throttled progress.
func (l *Logger) LogProgress(ctx context.Context, done, total int, last RunResult) {
	l.InfoContext(ctx, "progress",
		"done", done,
		"total", total,
		"speedup", last.Speedup,
		"relative_error", last.RelativeError,
	)
}

// LogAudit logs the per-pair accuracy audit.
func (l *Logger) LogAudit(ctx context.Context, a Audit) {
	l.InfoContext(ctx, "audit completed",
		"pairs", a.Pairs,
		"mean_relative_error", a.MeanRelativeError,
		"max_relative_error", a.MaxRelativeError,
	)
}

// LogReport logs a written report.
func (l *Logger) LogReport(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "report write failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "report written",
			"name", name,
		)
	}
}

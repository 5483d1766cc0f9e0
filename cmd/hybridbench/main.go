// Command hybridbench times hybrid-precision distances against full-precision
// ones and writes speedup and accuracy reports.
//
// Usage:
//
//	hybridbench [--config bench.yaml] [-n 1000] [-d 4096] [-o s3://bucket/prefix]
//
// Flags override values from the config file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/hybridvec/bench"
	"github.com/hupe1980/hybridvec/distance"
)

type options struct {
	Config string `short:"c" long:"config" description:"YAML config file"`

	Vectors    *int     `short:"n" long:"vectors" description:"Number of vectors"`
	Dimension  *int     `short:"d" long:"dimension" description:"Elements per vector"`
	Iterations *int     `short:"i" long:"iterations" description:"Passes over all pairs per run"`
	Runs       *int     `short:"r" long:"runs" description:"Number of timed runs"`
	Min        *float64 `long:"min" description:"Lower bound of generated values"`
	Max        *float64 `long:"max" description:"Upper bound of generated values"`
	Seed       *int64   `long:"seed" description:"Generator seed (0 picks one)"`

	FloatBits *int    `long:"float-bits" description:"Full-precision element width" choice:"32" choice:"64"`
	CodeBits  *int    `long:"code-bits" description:"Quantization code width" choice:"8" choice:"16" choice:"32"`
	Metric    *string `short:"m" long:"metric" description:"Distance metric (l2, squared_l2)"`
	Workers   *int    `short:"w" long:"workers" description:"Construction and audit parallelism (0 = GOMAXPROCS)"`

	ProgressInterval *time.Duration `long:"progress-interval" description:"Minimum time between progress lines (0 = every run)"`

	Output             *string `short:"o" long:"output" description:"Report destination: directory, mem://, s3://bucket/prefix or minio://endpoint/bucket/prefix"`
	Fixture            *string `long:"fixture" description:"Load the dataset from this fixture in the output store"`
	SaveFixture        *string `long:"save-fixture" description:"Save the dataset as a fixture in the output store"`
	FixtureCompression *string `long:"fixture-compression" description:"Fixture compression" choice:"none" choice:"lz4" choice:"zstd"`

	MetricsAddr string `long:"metrics-addr" description:"Serve Prometheus metrics on this address, e.g. :9090"`
	LogFormat   string `long:"log-format" description:"Log format" choice:"text" choice:"json" default:"text"`
	Verbose     bool   `short:"v" long:"verbose" description:"Log every run"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "hybridbench:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	logger := newLogger(opts)

	store, err := openStore(ctx, cfg.Output)
	if err != nil {
		return err
	}

	var metrics bench.MetricsCollector = &bench.BasicMetricsCollector{}
	if opts.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = bench.NewPrometheusCollector(reg)

		shutdown := serveMetrics(opts.MetricsAddr, reg, logger)
		defer shutdown()
	}

	runner, err := bench.NewRunner(cfg,
		bench.WithLogger(logger),
		bench.WithMetricsCollector(metrics),
		bench.WithStore(store),
	)
	if err != nil {
		return err
	}

	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	return printSummary(stdout, report)
}

// resolveConfig layers the config file and then explicit flags over the
// defaults.
func resolveConfig(opts options) (bench.Config, error) {
	cfg := bench.DefaultConfig()
	if opts.Config != "" {
		loaded, err := bench.LoadConfigFile(opts.Config)
		if err != nil {
			return bench.Config{}, err
		}
		cfg = loaded
	}

	setIf(&cfg.NumVectors, opts.Vectors)
	setIf(&cfg.Dimension, opts.Dimension)
	setIf(&cfg.Iterations, opts.Iterations)
	setIf(&cfg.Runs, opts.Runs)
	setIf(&cfg.Min, opts.Min)
	setIf(&cfg.Max, opts.Max)
	setIf(&cfg.Seed, opts.Seed)
	setIf(&cfg.FloatBits, opts.FloatBits)
	setIf(&cfg.CodeBits, opts.CodeBits)
	setIf(&cfg.Workers, opts.Workers)
	setIf(&cfg.ProgressInterval, opts.ProgressInterval)
	setIf(&cfg.Output, opts.Output)
	setIf(&cfg.Fixture, opts.Fixture)
	setIf(&cfg.SaveFixture, opts.SaveFixture)
	setIf(&cfg.FixtureCompression, opts.FixtureCompression)

	if opts.Metric != nil {
		m, err := distance.ParseMetric(*opts.Metric)
		if err != nil {
			return bench.Config{}, err
		}
		cfg.Metric = m
	}

	return cfg, cfg.Validate()
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func newLogger(opts options) *bench.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	if opts.LogFormat == "json" {
		return bench.NewJSONLogger(level)
	}
	return bench.NewTextLogger(level)
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *bench.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func printSummary(w io.Writer, r *bench.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Kernels\t%s (detected %s)\n", r.Kernels, r.ISA)
	fmt.Fprintf(tw, "Types\tfloat%d / uint%d\n", r.Config.FloatBits, r.Config.CodeBits)
	fmt.Fprintf(tw, "Metric\t%s\n", r.Config.Metric)
	fmt.Fprintf(tw, "Runs\t%d\n", len(r.Runs))
	fmt.Fprintf(tw, "Construction\t%s\n", r.Construction)
	fmt.Fprintf(tw, "Memory ratio\t%.4f\n", r.MemoryRatio())
	fmt.Fprintf(tw, "Speedup\tavg %.4f  min %.4f  max %.4f  std %.4f\n",
		r.Speedup.Mean, r.Speedup.Min, r.Speedup.Max, r.Speedup.StdDev)
	fmt.Fprintf(tw, "Relative error\tavg %.3e  min %.3e  max %.3e  std %.3e\n",
		r.Error.Mean, r.Error.Min, r.Error.Max, r.Error.StdDev)
	fmt.Fprintf(tw, "Audit\t%d pairs, mean %.3e, max %.3e\n",
		r.Audit.Pairs, r.Audit.MeanRelativeError, r.Audit.MaxRelativeError)
	return tw.Flush()
}

package bench

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/hupe1980/hybridvec/distance"
	"github.com/hupe1980/hybridvec/internal/compress"
	"github.com/hupe1980/hybridvec/internal/conv"
	"gopkg.in/yaml.v3"
)

// Config describes one benchmark session.
//
// The zero value is not usable; start from DefaultConfig.
type Config struct {
	// NumVectors is the dataset size. Distances are taken between consecutive
	// vectors, so at least two are required.
	NumVectors int `yaml:"num_vectors"`
	// Dimension is the number of elements per vector.
	Dimension int `yaml:"dimension"`
	// Iterations is the number of passes over all consecutive pairs per run.
	Iterations int `yaml:"iterations"`
	// Runs is the number of timed runs.
	Runs int `yaml:"runs"`

	// Min and Max bound the uniform distribution of generated values.
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
	// Seed seeds the generator. Zero picks a time-based seed.
	Seed int64 `yaml:"seed"`

	// FloatBits selects F: 32 or 64.
	FloatBits int `yaml:"float_bits"`
	// CodeBits selects Q: 8, 16 or 32.
	CodeBits int `yaml:"code_bits"`
	// Metric is the distance being timed.
	Metric distance.Metric `yaml:"metric"`

	// Workers bounds construction and audit parallelism. Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`
	// ProgressInterval throttles progress logging. Zero logs every run.
	ProgressInterval time.Duration `yaml:"progress_interval"`

	// Output is the report destination, interpreted by the CLI.
	Output string `yaml:"output"`
	// Fixture names a dataset to load instead of generating one.
	Fixture string `yaml:"fixture"`
	// SaveFixture names a fixture to write the dataset to.
	SaveFixture string `yaml:"save_fixture"`
	// FixtureCompression is none, lz4 or zstd.
	FixtureCompression string `yaml:"fixture_compression"`
}

// DefaultConfig returns the reference benchmark: 1000 vectors of 4096
// float64 values in [-10, 10), uint8 codes, 100 iterations, 500 runs.
func DefaultConfig() Config {
	return Config{
		NumVectors:         1000,
		Dimension:          4096,
		Iterations:         100,
		Runs:               500,
		Min:                -10,
		Max:                10,
		FloatBits:          64,
		CodeBits:           8,
		Metric:             distance.MetricL2,
		ProgressInterval:   2 * time.Second,
		Output:             ".",
		FixtureCompression: "zstd",
	}
}

// Validate reports the first invalid field as an *ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.NumVectors < 2:
		return invalid("num_vectors", c.NumVectors, "must be at least 2")
	case c.Dimension < 1:
		return invalid("dimension", c.Dimension, "must be positive")
	case c.Iterations < 1:
		return invalid("iterations", c.Iterations, "must be positive")
	case c.Runs < 1:
		return invalid("runs", c.Runs, "must be positive")
	case math.IsNaN(c.Min) || math.IsInf(c.Min, 0):
		return invalid("min", c.Min, "must be finite")
	case math.IsNaN(c.Max) || math.IsInf(c.Max, 0):
		return invalid("max", c.Max, "must be finite")
	case c.Min >= c.Max:
		return invalid("max", c.Max, fmt.Sprintf("must be greater than min (%g)", c.Min))
	case c.FloatBits != 32 && c.FloatBits != 64:
		return invalid("float_bits", c.FloatBits, "must be 32 or 64")
	case c.CodeBits != 8 && c.CodeBits != 16 && c.CodeBits != 32:
		return invalid("code_bits", c.CodeBits, "must be 8, 16 or 32")
	case c.Workers < 0:
		return invalid("workers", c.Workers, "must not be negative")
	case c.ProgressInterval < 0:
		return invalid("progress_interval", c.ProgressInterval, "must not be negative")
	}
	if _, err := conv.MulInt(c.NumVectors, c.Dimension); err != nil {
		return &ErrInvalidConfig{Field: "dimension", Value: c.Dimension, Reason: "dataset size overflows", cause: err}
	}
	if _, err := distance.Provider[float64](c.Metric); err != nil {
		return &ErrInvalidConfig{Field: "metric", Value: c.Metric, Reason: "unsupported", cause: err}
	}
	if _, err := compress.ParseType(c.FixtureCompression); err != nil {
		return &ErrInvalidConfig{Field: "fixture_compression", Value: c.FixtureCompression, Reason: "unsupported", cause: err}
	}
	return nil
}

// EffectiveWorkers resolves Workers against GOMAXPROCS.
func (c Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// LoadConfig decodes YAML from r over DefaultConfig. Unknown keys are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadConfig(bytes.NewReader(data))
}

// Encode renders c as YAML in the format LoadConfig accepts.
func (c Config) Encode() ([]byte, error) {
	return yaml.Marshal(c)
}

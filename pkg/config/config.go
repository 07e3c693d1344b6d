// Package config defines the quoteframe configuration file and its loader.
//
// A configuration is a YAML document whose values may reference environment
// variables as ${VAR}. Every key can also be overridden from the
// environment with the QUOTEFRAME_ prefix, dots replaced by underscores:
//
//	QUOTEFRAME_STRATEGY=row-transpose
//	QUOTEFRAME_OUTPUT_FORMAT=parquet
//
// Example usage:
//
//	cfg, err := config.Load("quoteframe.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"github.com/ajitpratap0/quoteframe/pkg/errors"
	"github.com/ajitpratap0/quoteframe/pkg/logger"
)

// Input kinds accepted by the CLI
const (
	// InputBulk is a JSON object mapping symbols to bulk quote records
	InputBulk = "bulk"
	// InputEnvelope is a single-quote API envelope
	InputEnvelope = "envelope"
	// InputRows is a JSON array of flat quote rows
	InputRows = "rows"
)

// Config is the top-level quoteframe configuration
type Config struct {
	Log      logger.Config `yaml:"log" mapstructure:"log"`
	Input    InputConfig   `yaml:"input" mapstructure:"input"`
	Strategy string        `yaml:"strategy" mapstructure:"strategy"`
	// Shards > 1 materializes disjoint partitions concurrently
	Shards  int           `yaml:"shards" mapstructure:"shards"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Bench   BenchConfig   `yaml:"bench" mapstructure:"bench"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Decoder DecoderConfig `yaml:"decoder" mapstructure:"decoder"`
}

// InputConfig locates the quote document
type InputConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
	Kind string `yaml:"kind" mapstructure:"kind"`
}

// OutputConfig controls how a built table is written
type OutputConfig struct {
	// Path is the output file; empty means stdout
	Path        string `yaml:"path" mapstructure:"path"`
	Format      string `yaml:"format" mapstructure:"format"`
	Compression string `yaml:"compression" mapstructure:"compression"`
}

// BenchConfig controls the measurement harness
type BenchConfig struct {
	Iterations int      `yaml:"iterations" mapstructure:"iterations"`
	Warmup     int      `yaml:"warmup" mapstructure:"warmup"`
	Strategies []string `yaml:"strategies" mapstructure:"strategies"`
}

// MetricsConfig toggles the Prometheus dump after a run
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// TracingConfig toggles span export
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" mapstructure:"enabled"`
	SamplingRate float64 `yaml:"sampling_rate" mapstructure:"sampling_rate"`
	PrettyPrint  bool    `yaml:"pretty_print" mapstructure:"pretty_print"`
}

// DecoderConfig configures the JSON rows decoder
type DecoderConfig struct {
	SampleSize int `yaml:"sample_size" mapstructure:"sample_size"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Log: logger.Config{
			Level:    "info",
			Encoding: "json",
			File: logger.FileConfig{
				MaxSizeMB:  100,
				MaxBackups: 3,
				MaxAgeDays: 28,
			},
		},
		Input: InputConfig{
			Kind: InputBulk,
		},
		Strategy: "direct-append",
		Shards:   1,
		Output: OutputConfig{
			Format:      "text",
			Compression: "none",
		},
		Bench: BenchConfig{
			Iterations: 1000,
			Warmup:     10,
		},
		Tracing: TracingConfig{
			SamplingRate: 1.0,
		},
		Decoder: DecoderConfig{
			SampleSize: 100,
		},
	}
}

// Validate checks value ranges and enumerations. Strategy, format and
// compression names are resolved by the packages that own them.
func (c *Config) Validate() error {
	switch c.Input.Kind {
	case InputBulk, InputEnvelope, InputRows:
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown input kind %q", c.Input.Kind).
			WithDetail("field", "input.kind")
	}
	if c.Strategy == "" {
		return errors.New(errors.ErrorTypeConfig, "strategy is required").
			WithDetail("field", "strategy")
	}
	if c.Shards < 1 {
		return errors.Newf(errors.ErrorTypeConfig, "shards must be at least 1, got %d", c.Shards).
			WithDetail("field", "shards")
	}
	if c.Bench.Iterations < 1 {
		return errors.Newf(errors.ErrorTypeConfig, "bench.iterations must be positive, got %d", c.Bench.Iterations).
			WithDetail("field", "bench.iterations")
	}
	if c.Bench.Warmup < 0 {
		return errors.Newf(errors.ErrorTypeConfig, "bench.warmup must not be negative, got %d", c.Bench.Warmup).
			WithDetail("field", "bench.warmup")
	}
	if c.Decoder.SampleSize < 1 {
		return errors.Newf(errors.ErrorTypeConfig, "decoder.sample_size must be positive, got %d", c.Decoder.SampleSize).
			WithDetail("field", "decoder.sample_size")
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		return errors.Newf(errors.ErrorTypeConfig, "tracing.sampling_rate must be within [0, 1], got %g", c.Tracing.SamplingRate).
			WithDetail("field", "tracing.sampling_rate")
	}
	return nil
}

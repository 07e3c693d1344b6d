package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/quoteframe/pkg/errors"
)

// EnvPrefix prefixes environment overrides
const EnvPrefix = "QUOTEFRAME"

// Load reads a YAML configuration file, substitutes ${VAR} references,
// applies QUOTEFRAME_* environment overrides and defaults, and validates the
// result. An empty path yields defaults plus environment overrides.
func Load(filePath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())

	if filePath != "" {
		data, err := os.ReadFile(filePath) //nolint:gosec // G304: File path is controlled by caller
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read config file").
				WithDetail("path", filePath)
		}

		content := substituteEnvVars(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(content)); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse YAML").
				WithDetail("path", filePath)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a configuration to a YAML file
func Save(filePath string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to marshal YAML")
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil { //nolint:gosec
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write config file").
			WithDetail("path", filePath)
	}

	return nil
}

// setDefaults registers every key so that AutomaticEnv can override it
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
	v.SetDefault("log.encoding", d.Log.Encoding)
	v.SetDefault("log.output_paths", d.Log.OutputPaths)
	v.SetDefault("log.file.path", d.Log.File.Path)
	v.SetDefault("log.file.max_size_mb", d.Log.File.MaxSizeMB)
	v.SetDefault("log.file.max_backups", d.Log.File.MaxBackups)
	v.SetDefault("log.file.max_age_days", d.Log.File.MaxAgeDays)
	v.SetDefault("log.file.compress", d.Log.File.Compress)

	v.SetDefault("input.path", d.Input.Path)
	v.SetDefault("input.kind", d.Input.Kind)
	v.SetDefault("strategy", d.Strategy)
	v.SetDefault("shards", d.Shards)

	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.compression", d.Output.Compression)

	v.SetDefault("bench.iterations", d.Bench.Iterations)
	v.SetDefault("bench.warmup", d.Bench.Warmup)
	v.SetDefault("bench.strategies", d.Bench.Strategies)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.sampling_rate", d.Tracing.SamplingRate)
	v.SetDefault("tracing.pretty_print", d.Tracing.PrettyPrint)
	v.SetDefault("decoder.sample_size", d.Decoder.SampleSize)
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
// Substituted values are not expanded again.
func substituteEnvVars(content string) string {
	pos := 0
	for pos < len(content) {
		start := strings.Index(content[pos:], "${")
		if start == -1 {
			break
		}
		start += pos
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		envValue := os.Getenv(varName)
		content = content[:start] + envValue + content[end+1:]
		pos = start + len(envValue)
	}
	return content
}

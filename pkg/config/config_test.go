package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/quoteframe/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quoteframe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("QUOTE_DIR", "/data/kite")
	path := writeConfig(t, `
log:
  level: debug
  file:
    path: /tmp/quoteframe.log
input:
  path: ${QUOTE_DIR}/quotes.json
  kind: bulk
strategy: generic-staging
shards: 4
output:
  format: parquet
  compression: zstd
bench:
  iterations: 50
  strategies: [direct-append, row-transpose]
decoder:
  sample_size: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/quoteframe.log", cfg.Log.File.Path)
	assert.Equal(t, 100, cfg.Log.File.MaxSizeMB, "unset keys keep defaults")
	assert.Equal(t, "/data/kite/quotes.json", cfg.Input.Path)
	assert.Equal(t, "generic-staging", cfg.Strategy)
	assert.Equal(t, 4, cfg.Shards)
	assert.Equal(t, "parquet", cfg.Output.Format)
	assert.Equal(t, "zstd", cfg.Output.Compression)
	assert.Equal(t, 50, cfg.Bench.Iterations)
	assert.Equal(t, 10, cfg.Bench.Warmup)
	assert.Equal(t, []string{"direct-append", "row-transpose"}, cfg.Bench.Strategies)
	assert.Equal(t, 10, cfg.Decoder.SampleSize)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("QUOTEFRAME_STRATEGY", "row-transpose")
	t.Setenv("QUOTEFRAME_OUTPUT_FORMAT", "csv")
	t.Setenv("QUOTEFRAME_SHARDS", "8")

	cfg, err := Load(writeConfig(t, "strategy: indexed-write\n"))
	require.NoError(t, err)
	assert.Equal(t, "row-transpose", cfg.Strategy)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, 8, cfg.Shards)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))

	_, err = Load(writeConfig(t, "strategy: [unterminated\n"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = Load(writeConfig(t, "shards: 0\n"))
	require.Error(t, err)
	assert.Equal(t, "shards", errors.Details(err)["field"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"input kind", func(c *Config) { c.Input.Kind = "xml" }, "input.kind"},
		{"strategy", func(c *Config) { c.Strategy = "" }, "strategy"},
		{"iterations", func(c *Config) { c.Bench.Iterations = 0 }, "bench.iterations"},
		{"warmup", func(c *Config) { c.Bench.Warmup = -1 }, "bench.warmup"},
		{"sample size", func(c *Config) { c.Decoder.SampleSize = 0 }, "decoder.sample_size"},
		{"sampling rate", func(c *Config) { c.Tracing.SamplingRate = 1.5 }, "tracing.sampling_rate"},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
			assert.Equal(t, tt.field, errors.Details(err)["field"])
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Strategy = "prefilled-indexed-write"
	cfg.Output.Format = "arrow"
	cfg.Bench.Strategies = []string{"direct-append"}
	cfg.Log.OutputPaths = []string{"stderr"}

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("QF_A", "alpha")
	assert.Equal(t, "x alpha y ", substituteEnvVars("x ${QF_A} y ${QF_UNSET_VAR}"))
	assert.Equal(t, "open ${brace", substituteEnvVars("open ${brace"))

	t.Setenv("QF_SELF", "${QF_SELF}")
	t.Setenv("QF_NEXT", "${QF_A}")
	assert.Equal(t, "${QF_SELF} ${QF_A} alpha", substituteEnvVars("${QF_SELF} ${QF_NEXT} ${QF_A}"))
}

func TestLoadSelfReferencingEnv(t *testing.T) {
	t.Setenv("QUOTEFRAME_SELF", "${QUOTEFRAME_SELF}")
	path := writeConfig(t, "strategy: ${QUOTEFRAME_SELF}\n")

	type result struct {
		cfg *Config
		err error
	}
	done := make(chan result, 1)
	go func() {
		cfg, err := Load(path)
		done <- result{cfg, err}
	}()

	select {
	case res := <-done:
		require.NoError(t, res.err)
		assert.Equal(t, "${QUOTEFRAME_SELF}", res.cfg.Strategy)
	case <-time.After(2 * time.Second):
		t.Fatal("Load did not return")
	}
}

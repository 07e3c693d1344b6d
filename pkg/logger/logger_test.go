package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/quoteframe/pkg/errors"
)

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestWithContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	ctx := WithStrategy(WithRunID(context.Background(), "run-1"), "direct-append")
	WithContext(ctx).Info("table built", zap.Int("rows", 3))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "run-1", fields["run_id"])
	assert.Equal(t, "direct-append", fields["strategy"])
	assert.Equal(t, int64(3), fields["rows"])
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quoteframe.log")
	l, err := New(Config{
		Level:       "debug",
		OutputPaths: []string{filepath.Join(t.TempDir(), "console.log")},
		File:        FileConfig{Path: path, MaxSizeMB: 1},
	})
	require.NoError(t, err)

	l.Debug("written to rotating file", zap.String("component", "test"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to rotating file")
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestGetDefault(t *testing.T) {
	Set(nil)
	assert.NotNil(t, Get())
	assert.NoError(t, Init(Config{Level: "warn", OutputPaths: []string{filepath.Join(t.TempDir(), "out.log")}}))
	assert.False(t, Get().Core().Enabled(zap.InfoLevel))
}

// Package observability installs OpenTelemetry tracing for quoteframe and
// provides the span helper used around table builds
package observability

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/ajitpratap0/quoteframe/pkg/errors"
)

const instrumentationName = "github.com/ajitpratap0/quoteframe"

var (
	mu       sync.RWMutex
	provider *sdktrace.TracerProvider

	spanDuration metric.Float64Histogram
)

// TracingConfig contains tracing configuration
type TracingConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	SamplingRate   float64
	// Output receives exported spans; stdout when nil
	Output       io.Writer
	PrettyPrint  bool
	BatchTimeout time.Duration
}

// DefaultConfig returns a disabled tracing configuration with sane values
func DefaultConfig() TracingConfig {
	return TracingConfig{
		ServiceName:    "quoteframe",
		ServiceVersion: "dev",
		Environment:    getEnv("ENVIRONMENT", "development"),
		SamplingRate:   1.0,
		BatchTimeout:   5 * time.Second,
	}
}

// Init installs a tracer provider exporting to the configured writer. With
// tracing disabled the global no-op provider stays in place.
func Init(config TracingConfig) error {
	if !config.Enabled {
		return nil
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(config.Environment),
		),
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to create trace resource")
	}

	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	opts := []stdouttrace.Option{stdouttrace.WithWriter(out)}
	if config.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to create stdout exporter")
	}

	var sampler sdktrace.Sampler
	if config.SamplingRate <= 0 {
		sampler = sdktrace.NeverSample()
	} else if config.SamplingRate >= 1.0 {
		sampler = sdktrace.AlwaysSample()
	} else {
		sampler = sdktrace.TraceIDRatioBased(config.SamplingRate)
	}

	batchTimeout := config.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 5 * time.Second
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(batchTimeout)),
	)

	mu.Lock()
	old := provider
	provider = tp
	mu.Unlock()
	otel.SetTracerProvider(tp)

	if old != nil {
		_ = old.Shutdown(context.Background())
	}
	return nil
}

// Shutdown flushes and stops the installed tracer provider, if any
func Shutdown(ctx context.Context) error {
	mu.Lock()
	tp := provider
	provider = nil
	mu.Unlock()

	if tp == nil {
		return nil
	}
	if err := tp.Shutdown(ctx); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to shutdown tracer")
	}
	return nil
}

// Tracer returns the quoteframe tracer from the global provider
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

func durationHistogram() metric.Float64Histogram {
	mu.RLock()
	h := spanDuration
	mu.RUnlock()
	if h != nil {
		return h
	}

	mu.Lock()
	defer mu.Unlock()
	if spanDuration == nil {
		h, err := otel.Meter(instrumentationName).Float64Histogram(
			"quoteframe.span.duration",
			metric.WithDescription("Duration of traced operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			return nil
		}
		spanDuration = h
	}
	return spanDuration
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

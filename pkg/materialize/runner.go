package materialize

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/quoteframe/pkg/columnar"
	"github.com/ajitpratap0/quoteframe/pkg/errors"
	"github.com/ajitpratap0/quoteframe/pkg/logger"
	"github.com/ajitpratap0/quoteframe/pkg/metrics"
	"github.com/ajitpratap0/quoteframe/pkg/observability"
	"github.com/ajitpratap0/quoteframe/pkg/quote"
)

const component = "materialize"

// Runner invokes one strategy with logging, metrics and tracing around it.
// It never alters the table the strategy returns.
type Runner struct {
	name     string
	strategy Strategy
	shards   int
	logger   *zap.Logger
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithShards materializes the input in n concurrent shards
func WithShards(n int) RunnerOption {
	return func(r *Runner) { r.shards = n }
}

// WithLogger overrides the global logger
func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// NewRunner creates a runner for a registered strategy
func NewRunner(name string, opts ...RunnerOption) (*Runner, error) {
	strategy, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return NewRunnerFor(name, strategy, opts...), nil
}

// NewRunnerFor creates a runner for an arbitrary strategy labelled name
func NewRunnerFor(name string, strategy Strategy, opts ...RunnerOption) *Runner {
	r := &Runner{
		name:     name,
		strategy: strategy,
		shards:   1,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().With(zap.String("component", component))
	}
	if r.shards > 1 {
		r.strategy = Sharded(r.strategy, r.shards)
	}
	return r
}

// Name returns the strategy label
func (r *Runner) Name() string { return r.name }

// Result is the outcome of one successful run
type Result struct {
	RunID    string
	Table    *columnar.Table
	Duration time.Duration
}

// Run materializes quotes. A failed run returns no table.
func (r *Runner) Run(ctx context.Context, quotes quote.Quotes) (*Result, error) {
	runID := uuid.NewString()
	log := r.logger.With(zap.String("run_id", runID), zap.String("strategy", r.name))

	_, span := observability.StartSpan(ctx, "materialize."+r.name,
		attribute.String("run_id", runID),
		attribute.String("strategy", r.name),
		attribute.Int("instruments", len(quotes)),
		attribute.Int("shards", r.shards),
	)
	defer span.End()

	timer := metrics.NewTimer()
	table, err := r.strategy(quotes)
	elapsed := timer.Stop()

	rows := 0
	if table != nil {
		rows = table.NumRows()
	}
	metrics.ObserveBuild(component, r.name, elapsed, rows, err)
	span.RecordError(err)

	if err != nil {
		fields := []zap.Field{zap.Error(err), zap.Duration("duration", elapsed)}
		for k, v := range errors.Details(err) {
			fields = append(fields, zap.Any(k, v))
		}
		if errors.IsFatal(err) {
			log.Error("materialization invariant violated", fields...)
		} else {
			log.Warn("materialization failed", fields...)
		}
		return nil, err
	}

	metrics.TableMemory.WithLabelValues(component, r.name).Set(float64(table.MemoryUsage()))
	span.SetAttribute("rows", rows)
	log.Debug("table materialized",
		zap.Int("rows", rows),
		zap.Int("columns", table.NumColumns()),
		zap.Duration("duration", elapsed),
	)

	return &Result{RunID: runID, Table: table, Duration: elapsed}, nil
}

// Package bench times materialization strategies against one input
package bench

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/ajitpratap0/quoteframe/pkg/errors"
	"github.com/ajitpratap0/quoteframe/pkg/logger"
	"github.com/ajitpratap0/quoteframe/pkg/materialize"
	"github.com/ajitpratap0/quoteframe/pkg/quote"
)

// Options controls a measurement run
type Options struct {
	Iterations int
	Warmup     int
	Shards     int
	Logger     *zap.Logger
}

// DefaultOptions returns the options used by the CLI when none are given
func DefaultOptions() Options {
	return Options{Iterations: 1000, Warmup: 10, Shards: 1}
}

// Result is the measurement of one strategy
type Result struct {
	Strategy    string        `json:"strategy"`
	Iterations  int           `json:"iterations"`
	Rows        int           `json:"rows"`
	Total       time.Duration `json:"total_ns"`
	NsPerOp     float64       `json:"ns_per_op"`
	AllocsPerOp float64       `json:"allocs_per_op"`
	BytesPerOp  float64       `json:"bytes_per_op"`
	// RSSBytes is the process resident set size after the timed loop
	RSSBytes uint64 `json:"rss_bytes"`
}

// Report collects the results of one run in the order strategies were given
type Report struct {
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	Instruments int       `json:"instruments"`
	Results     []Result  `json:"results"`
}

// Fastest returns the result with the lowest time per operation
func (r *Report) Fastest() (Result, bool) {
	if len(r.Results) == 0 {
		return Result{}, false
	}
	best := r.Results[0]
	for _, res := range r.Results[1:] {
		if res.NsPerOp < best.NsPerOp {
			best = res
		}
	}
	return best, true
}

// Run times every named strategy over opts.Iterations materializations of
// a private copy of quotes. An empty names list measures every registered
// strategy.
func Run(ctx context.Context, quotes quote.Quotes, names []string, opts Options) (*Report, error) {
	if opts.Iterations <= 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "iterations must be positive").
			WithDetail("iterations", opts.Iterations)
	}
	if opts.Warmup < 0 {
		opts.Warmup = 0
	}
	if len(names) == 0 {
		names = materialize.Names()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Get().With(zap.String("component", "bench"))
	}

	report := &Report{
		RunID:       uuid.NewString(),
		StartedAt:   time.Now(),
		Instruments: len(quotes),
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("process stats unavailable", zap.Error(err))
	}

	for _, name := range names {
		strategy, err := materialize.Lookup(name)
		if err != nil {
			return nil, err
		}
		if opts.Shards > 1 {
			strategy = materialize.Sharded(strategy, opts.Shards)
		}

		res, err := measure(ctx, name, strategy, quotes.Clone(), opts)
		if err != nil {
			return nil, err
		}
		if proc != nil {
			if mi, err := proc.MemoryInfo(); err == nil {
				res.RSSBytes = mi.RSS
			}
		}

		log.Info("strategy measured",
			zap.String("run_id", report.RunID),
			zap.String("strategy", name),
			zap.Int("rows", res.Rows),
			zap.Float64("ns_per_op", res.NsPerOp),
			zap.Float64("allocs_per_op", res.AllocsPerOp),
		)
		report.Results = append(report.Results, res)
	}
	return report, nil
}

func measure(ctx context.Context, name string, strategy materialize.Strategy, input quote.Quotes, opts Options) (Result, error) {
	res := Result{Strategy: name, Iterations: opts.Iterations}

	for i := 0; i < opts.Warmup; i++ {
		if _, err := strategy(input); err != nil {
			return res, errors.Wrap(err, errors.ErrorTypeData, "warmup failed").WithDetail("strategy", name)
		}
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	start := time.Now()

	for i := 0; i < opts.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		table, err := strategy(input)
		if err != nil {
			return res, errors.Wrap(err, errors.ErrorTypeData, "materialization failed").
				WithDetail("strategy", name).
				WithDetail("iteration", i)
		}
		res.Rows = table.NumRows()
	}

	res.Total = time.Since(start)
	runtime.ReadMemStats(&after)

	n := float64(opts.Iterations)
	res.NsPerOp = float64(res.Total.Nanoseconds()) / n
	res.AllocsPerOp = float64(after.Mallocs-before.Mallocs) / n
	res.BytesPerOp = float64(after.TotalAlloc-before.TotalAlloc) / n
	return res, nil
}

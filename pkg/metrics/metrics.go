// Package metrics exposes Prometheus collectors for table construction.
//
// Every table built by a materialization strategy or by the JSON decoder is
// counted and timed, labelled by the component that built it and the
// strategy used:
//
//	timer := metrics.NewTimer()
//	table, err := strategy(quotes)
//	metrics.ObserveBuild("materialize", "direct-append", timer.Stop(), rows, err)
//
// Collectors are registered on a package-level registry so that tests and
// the CLI can gather them without touching the process-wide default.
package metrics

import (
	"io"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Registry holds every quoteframe collector
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// TablesBuilt counts finished table builds.
	// Labels: component (materialize/decode), strategy, status (success/failure)
	TablesBuilt = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quoteframe_tables_built_total",
			Help: "Total number of tables built",
		},
		[]string{"component", "strategy", "status"},
	)

	// RowsBuilt counts rows in successfully built tables
	RowsBuilt = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quoteframe_rows_built_total",
			Help: "Total number of rows in built tables",
		},
		[]string{"component", "strategy"},
	)

	// BuildDuration tracks how long one table build takes
	BuildDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "quoteframe_build_duration_seconds",
			Help: "Table build duration in seconds",
			Buckets: []float64{
				1e-6, // 1μs - tiny mappings
				1e-5,
				1e-4,
				1e-3, // 1ms - a few thousand instruments
				1e-2,
				1e-1,
				1,
			},
		},
		[]string{"component", "strategy"},
	)

	// TableMemory reports the estimated column storage of the last table built
	TableMemory = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quoteframe_table_memory_bytes",
			Help: "Estimated column storage of the last built table",
		},
		[]string{"component", "strategy"},
	)
)

// ObserveBuild records the outcome of one table build
func ObserveBuild(component, strategy string, d time.Duration, rows int, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	TablesBuilt.WithLabelValues(component, strategy, status).Inc()
	BuildDuration.WithLabelValues(component, strategy).Observe(d.Seconds())
	if err == nil {
		RowsBuilt.WithLabelValues(component, strategy).Add(float64(rows))
	}
}

// Timer measures the duration of a single operation
type Timer struct {
	start time.Time
}

// NewTimer starts timing immediately
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed duration since creation. It can be called
// repeatedly.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

var writeMu sync.Mutex

// WriteText writes every gathered family in the Prometheus text format
func WriteText(w io.Writer) error {
	writeMu.Lock()
	defer writeMu.Unlock()

	families, err := Registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// CounterValue returns the current value of a counter child, mainly for tests
func CounterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// Package jsontable decodes a JSON array of flat row objects into a typed
// table. A bounded prefix of the rows is inspected to check the document
// shape; the caller's declared schema then decides every column type.
//
// The sample only rejects early: an object or array seen in a sampled row
// of a declared column fails before any column is built. Every row is still
// coerced against the declared schema, and that pass is what guarantees a
// returned table holds no unreadable cell.
package jsontable

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/quoteframe/pkg/columnar"
	"github.com/ajitpratap0/quoteframe/pkg/errors"
	"github.com/ajitpratap0/quoteframe/pkg/json"
	"github.com/ajitpratap0/quoteframe/pkg/logger"
	"github.com/ajitpratap0/quoteframe/pkg/metrics"
	"github.com/ajitpratap0/quoteframe/pkg/observability"
	"github.com/ajitpratap0/quoteframe/pkg/schema"
)

const (
	component = "decode"
	// strategy label used for decoder metrics
	metricLabel = "json"
)

// Decoder turns rows documents into tables
type Decoder struct {
	sampleSize int
	logger     *zap.Logger

	mu   sync.Mutex
	last schema.Report
}

// Option configures a Decoder
type Option func(*Decoder)

// WithSampleSize sets how many leading rows are inspected by inference.
// Non-positive values select schema.DefaultSampleSize.
func WithSampleSize(n int) Option {
	return func(d *Decoder) { d.sampleSize = n }
}

// WithLogger overrides the global logger
func WithLogger(l *zap.Logger) Option {
	return func(d *Decoder) { d.logger = l }
}

// NewDecoder creates a decoder
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{sampleSize: schema.DefaultSampleSize}
	for _, opt := range opts {
		opt(d)
	}
	if d.sampleSize <= 0 {
		d.sampleSize = schema.DefaultSampleSize
	}
	if d.logger == nil {
		d.logger = logger.Get().With(zap.String("component", component))
	}
	return d
}

// Decode reads one rows document with the default decoder
func Decode(r io.Reader, declared *columnar.Schema) (*columnar.Table, error) {
	return NewDecoder().DecodeContext(context.Background(), r, declared)
}

// Decode reads one rows document from r. It returns nil and no error when
// the stream is empty or holds JSON null.
func (d *Decoder) Decode(r io.Reader, declared *columnar.Schema) (*columnar.Table, error) {
	return d.DecodeContext(context.Background(), r, declared)
}

// DecodeContext is Decode with a parent context for tracing
func (d *Decoder) DecodeContext(ctx context.Context, r io.Reader, declared *columnar.Schema) (*columnar.Table, error) {
	if declared == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "declared schema is required")
	}

	_, span := observability.StartSpan(ctx, "jsontable.decode",
		attribute.Int("sample_size", d.sampleSize),
		attribute.Int("fields", declared.Len()),
	)
	defer span.End()

	timer := metrics.NewTimer()
	table, err := d.decode(r, declared)
	elapsed := timer.Stop()

	rows := 0
	if table != nil {
		rows = table.NumRows()
	}
	metrics.ObserveBuild(component, metricLabel, elapsed, rows, err)
	span.RecordError(err)

	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		for k, v := range errors.Details(err) {
			fields = append(fields, zap.Any(k, v))
		}
		d.logger.Warn("rows document rejected", fields...)
		return nil, err
	}
	if table != nil {
		span.SetAttribute("rows", rows)
		metrics.TableMemory.WithLabelValues(component, metricLabel).Set(float64(table.MemoryUsage()))
	}
	return table, nil
}

// Inferred returns the inference report of the most recent successful
// shape check
func (d *Decoder) Inferred() schema.Report {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

func (d *Decoder) decode(r io.Reader, declared *columnar.Schema) (*columnar.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read rows document")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to parse rows document")
	}
	var extra interface{}
	if err := dec.Decode(&extra); err != io.EOF {
		e := errors.New(errors.ErrorTypeData, "trailing data after rows document")
		if err != nil {
			e = errors.Wrap(err, errors.ErrorTypeData, "trailing data after rows document")
		}
		return nil, e
	}
	if doc == nil {
		return nil, nil
	}

	items, ok := doc.([]interface{})
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeSchemaViolation,
			"rows document must be an array of objects, got %s", schema.DetectKind(doc)).
			WithDetail("actual", string(schema.DetectKind(doc)))
	}

	objects := make([]map[string]interface{}, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeSchemaViolation,
				"row %d must be an object, got %s", i, schema.DetectKind(item)).
				WithDetail("row", i).
				WithDetail("actual", string(schema.DetectKind(item)))
		}
		objects[i] = obj
	}

	inferred := schema.InferFields(objects, d.sampleSize)
	declared, report := schema.Overwrite(inferred, declared)
	d.record(report)

	if err := rejectSampled(objects, inferred, declared, d.sampleSize); err != nil {
		return nil, err
	}
	return build(objects, declared)
}

// rejectSampled fails on the first sampled object or array value of a
// declared field. No declared column type can hold either kind.
func rejectSampled(objects []map[string]interface{}, inferred []schema.InferredField, declared *columnar.Schema, sampleSize int) error {
	if len(objects) > sampleSize {
		objects = objects[:sampleSize]
	}
	for _, f := range inferred {
		switch f.Kind {
		case schema.KindObject, schema.KindArray, schema.KindMixed:
		default:
			continue
		}
		field, ok := declared.Lookup(f.Name)
		if !ok {
			continue
		}
		for i, obj := range objects {
			raw := obj[f.Name]
			if k := schema.DetectKind(raw); k != schema.KindObject && k != schema.KindArray {
				continue
			}
			_, err := coerce(raw, true, field)
			return err.WithDetail("row", i).WithDetail("sampled", true)
		}
	}
	return nil
}

func (d *Decoder) record(report schema.Report) {
	d.mu.Lock()
	d.last = report
	d.mu.Unlock()

	for _, o := range report.Overrides {
		d.logger.Debug("declared type overrides inferred kind",
			zap.String("field", o.Field),
			zap.String("inferred", string(o.Inferred)),
			zap.String("declared", o.Declared.String()),
		)
	}
	if len(report.Ignored) > 0 {
		d.logger.Debug("undeclared fields ignored", zap.Strings("fields", report.Ignored))
	}
}

func build(objects []map[string]interface{}, declared *columnar.Schema) (*columnar.Table, error) {
	fields := declared.Fields()
	staged := make([][]columnar.Value, len(fields))
	for c := range staged {
		staged[c] = make([]columnar.Value, len(objects))
	}

	for i, obj := range objects {
		for c, field := range fields {
			raw, present := obj[field.Name]
			v, err := coerce(raw, present, field)
			if err != nil {
				return nil, err.WithDetail("row", i)
			}
			staged[c][i] = v
		}
	}

	columns := make([]columnar.Column, len(fields))
	for c, field := range fields {
		col, err := columnar.ColumnFromValues(field, staged[c])
		if err != nil {
			return nil, err
		}
		columns[c] = col
	}
	return columnar.NewTable(declared, columns)
}

// coerce converts one JSON value to the declared column type
func coerce(raw interface{}, present bool, field columnar.Field) (columnar.Value, *errors.Error) {
	switch field.Type {
	case columnar.String:
		switch v := raw.(type) {
		case nil:
			return columnar.Null, nil
		case string:
			return columnar.StringValue(v), nil
		}
	case columnar.Uint64:
		if n, ok := raw.(json.Number); ok {
			if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
				return columnar.Uint64Value(u), nil
			}
		}
	case columnar.Float64:
		if n, ok := raw.(json.Number); ok {
			if f, err := strconv.ParseFloat(n.String(), 64); err == nil {
				return columnar.Float64Value(f), nil
			}
		}
	}

	actual := string(schema.DetectKind(raw))
	if !present {
		actual = "missing"
	}
	return columnar.Null, errors.Newf(errors.ErrorTypeSchemaViolation,
		"field %s: cannot read %s as %s", field.Name, actual, field.Type).
		WithDetail("field", field.Name).
		WithDetail("expected", field.Type.String()).
		WithDetail("actual", actual)
}

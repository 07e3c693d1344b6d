package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Span wraps an OpenTelemetry span and batches attributes until End
type Span struct {
	span       trace.Span
	name       string
	startTime  time.Time
	attributes []attribute.KeyValue
}

// StartSpan starts a span named name under ctx
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	ctx, span := Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &Span{
		span:      span,
		name:      name,
		startTime: time.Now(),
	}
}

// SetAttribute adds an attribute to the span
func (s *Span) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue

	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	default:
		attr = attribute.String(key, fmt.Sprintf("%v", v))
	}

	s.attributes = append(s.attributes, attr)
}

// RecordError marks the span failed. A nil error marks it ok.
func (s *Span) RecordError(err error) {
	if err == nil {
		s.span.SetStatus(codes.Ok, "")
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SpanContext returns the underlying span context
func (s *Span) SpanContext() trace.SpanContext {
	return s.span.SpanContext()
}

// End flushes batched attributes, records the span duration and ends the span
func (s *Span) End() {
	if len(s.attributes) > 0 {
		s.span.SetAttributes(s.attributes...)
	}

	if h := durationHistogram(); h != nil {
		h.Record(context.Background(), time.Since(s.startTime).Seconds(),
			metric.WithAttributes(attribute.String("operation", s.name)))
	}

	s.span.End()
}

// Trace runs fn inside a span and records its error
func Trace(ctx context.Context, name string, fn func(ctx context.Context, span *Span) error) error {
	ctx, span := StartSpan(ctx, name)
	defer span.End()

	err := fn(ctx, span)
	span.RecordError(err)
	return err
}

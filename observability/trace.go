package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TraceObserver records events on the span carried by the event context.
// Events emitted without a recording span are dropped.
type TraceObserver struct{}

// NewTraceObserver creates a TraceObserver.
func NewTraceObserver() *TraceObserver {
	return &TraceObserver{}
}

func (*TraceObserver) OnEvent(ctx context.Context, event Event) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	attrs := make([]attribute.KeyValue, 0, len(event.Data)+2)
	attrs = append(attrs,
		attribute.String("source", event.Source),
		attribute.String("severity", event.Level.String()),
	)
	for k, v := range event.Data {
		attrs = append(attrs, toAttribute(k, v))
	}

	opts := []trace.EventOption{trace.WithAttributes(attrs...)}
	if !event.Timestamp.IsZero() {
		opts = append(opts, trace.WithTimestamp(event.Timestamp))
	}
	span.AddEvent(string(event.Type), opts...)
}

func toAttribute(key string, v any) attribute.KeyValue {
	switch x := v.(type) {
	case string:
		return attribute.String(key, x)
	case bool:
		return attribute.Bool(key, x)
	case int:
		return attribute.Int(key, x)
	case int64:
		return attribute.Int64(key, x)
	case float64:
		return attribute.Float64(key, x)
	case []string:
		return attribute.StringSlice(key, x)
	case error:
		return attribute.String(key, x.Error())
	default:
		return attribute.String(key, fmt.Sprint(x))
	}
}

package sdk

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// NewTracerProvider creates a TracerProvider that exports finished spans
// to the provided structured logger. This is the batteries-included
// option for local runs: wire its tracer into WithTracer and every loop
// step shows up as a log line with its trace ID and duration.
//
// The provider uses a SimpleSpanProcessor for immediate export without
// batching; step spans are short-lived and low-volume.
//
// The caller should shut the provider down when done:
//
//	tp := sdk.NewTracerProvider(logger)
//	defer tp.Shutdown(context.Background())
//
//	explorer, err := sdk.NewExplorer(
//	    sdk.WithTracer(sdk.NewTracer(tp)),
//	)
func NewTracerProvider(logger *slog.Logger) *sdktrace.TracerProvider {
	if logger == nil {
		logger = slog.Default()
	}

	exporter := newLogSpanExporter(logger)
	processor := sdktrace.NewSimpleSpanProcessor(exporter)

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String("gridmind-sdk"),
		),
	)
	if err != nil {
		logger.Warn("failed to create resource, using default", "error", err)
		res = resource.Default()
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(res),
	)
}

// NewTracer creates a tracer with the standard name from the provider.
func NewTracer(tp *sdktrace.TracerProvider) trace.Tracer {
	return tp.Tracer("gridmind-sdk")
}

// logSpanExporter implements the OpenTelemetry SpanExporter interface by
// writing one log line per finished span. Errors never propagate into
// the trace pipeline; export always succeeds.
type logSpanExporter struct {
	logger *slog.Logger
}

func newLogSpanExporter(logger *slog.Logger) *logSpanExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &logSpanExporter{logger: logger}
}

// ExportSpans logs a batch of finished spans.
func (e *logSpanExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		sc := span.SpanContext()
		attrs := []any{
			"span", span.Name(),
			"trace_id", sc.TraceID().String(),
			"span_id", sc.SpanID().String(),
			"duration", span.EndTime().Sub(span.StartTime()),
		}
		for _, attr := range span.Attributes() {
			attrs = append(attrs, string(attr.Key), attr.Value.Emit())
		}
		if desc := span.Status().Description; desc != "" {
			attrs = append(attrs, "status", desc)
		}
		e.logger.Info("span completed", attrs...)
	}
	return nil
}

// Shutdown is a no-op; the logger's lifecycle belongs to the caller.
func (e *logSpanExporter) Shutdown(context.Context) error {
	return nil
}

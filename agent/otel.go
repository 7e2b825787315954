package agent

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/gridmind-ai/sdk/tool"
)

// loopMetrics holds the OpenTelemetry instruments for the loop.
// They are created once in NewLoop and reused for every run.
type loopMetrics struct {
	// stepCounter increments for each dispatched action, labelled by
	// action name and dispatch status.
	stepCounter metric.Int64Counter

	// runCounter increments once per completed run, labelled by terminal
	// status.
	runCounter metric.Int64Counter

	// runDuration records run wall-clock time in milliseconds.
	runDuration metric.Float64Histogram
}

func initLoopMetrics(meter metric.Meter) (*loopMetrics, error) {
	m := &loopMetrics{}
	var err error

	m.stepCounter, err = meter.Int64Counter(
		"explorer.steps",
		metric.WithDescription("Number of actions dispatched by the loop"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create step counter: %w", err)
	}

	m.runCounter, err = meter.Int64Counter(
		"explorer.runs",
		metric.WithDescription("Number of completed runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create run counter: %w", err)
	}

	m.runDuration, err = meter.Float64Histogram(
		"explorer.run.duration",
		metric.WithDescription("Run duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	return m, nil
}

// recordStep records one dispatched action. Skipped silently when no
// meter is configured.
func (l *Loop) recordStep(ctx context.Context, action string, status tool.Status) {
	if l.metrics == nil {
		return
	}
	l.metrics.stepCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("agent.action", action),
		attribute.String("tool.status", status.String()),
	))
}

// recordRun records the terminal status and duration of a run.
func (l *Loop) recordRun(ctx context.Context, result Result) {
	if l.metrics == nil {
		return
	}
	opts := metric.WithAttributes(
		attribute.String("agent.status", result.Status.String()),
	)
	l.metrics.runCounter.Add(ctx, 1, opts)
	l.metrics.runDuration.Record(ctx, float64(result.Duration.Milliseconds()), opts)
}

package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"downtimecli/internal/infrastructure"
)

const (
	TracerName = "downtimecli.operation"
)

// OperationTracer provides OpenTelemetry instrumentation for pipeline runs
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewOperationTracer creates a tracer backed by the process providers.
func NewOperationTracer(providers *infrastructure.OTelProviders) (*OperationTracer, error) {
	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	return &OperationTracer{
		tracer:  providers.Tracer,
		metrics: metrics,
	}, nil
}

// NoopOperationTracer returns a tracer that records nothing.
func NoopOperationTracer() *OperationTracer {
	metrics, _ := infrastructure.CreatePipelineMetrics(metricnoop.NewMeterProvider().Meter(TracerName))
	return &OperationTracer{
		tracer:  tracenoop.NewTracerProvider().Tracer(TracerName),
		metrics: metrics,
	}
}

// TraceRun creates a span for the whole pipeline run
func (ot *OperationTracer) TraceRun(ctx context.Context, runID, stage string, steps int) (context.Context, trace.Span) {
	return ot.tracer.Start(ctx, "pipeline.run."+stage,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline.run_id", runID),
			attribute.String("pipeline.stage", stage),
			attribute.Int("pipeline.step_count", steps),
		),
	)
}

// TraceStep creates a span for one step
func (ot *OperationTracer) TraceStep(ctx context.Context, runID, stepID string) (context.Context, trace.Span) {
	return ot.tracer.Start(ctx, "pipeline.step."+stepID,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline.run_id", runID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStepCompletion ends the step span and records its metrics.
func (ot *OperationTracer) RecordStepCompletion(ctx context.Context, span trace.Span, stepID string, duration time.Duration, err error) {
	span.SetAttributes(attribute.Float64("step.duration_seconds", duration.Seconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()

	ot.metrics.RecordStep(ctx, stepID, duration.Seconds(), err == nil)
}

// RecordRunCompletion ends the run span.
func (ot *OperationTracer) RecordRunCompletion(span trace.Span, status OperationStatusValue, err error) {
	span.SetAttributes(attribute.String("pipeline.status", string(status)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// RecordRows records the row count of a table written by a step.
func (ot *OperationTracer) RecordRows(ctx context.Context, table string, rows int) {
	ot.metrics.RecordRows(ctx, table, rows)
	trace.SpanFromContext(ctx).AddEvent("table.written", trace.WithAttributes(
		attribute.String("table", table),
		attribute.Int("rows", rows),
	))
}

// RecordCoercions records cells of one column that were stored as null.
func (ot *OperationTracer) RecordCoercions(ctx context.Context, table, column string, count int) {
	ot.metrics.RecordCoercions(ctx, table, column, count)
}

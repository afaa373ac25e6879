package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrument names.
const (
	MetricOperations = "surveycharts.operations"
	MetricDuration   = "surveycharts.operation.duration"
	MetricFailures   = "surveycharts.operation.failures"
	MetricInflight   = "surveycharts.operations.inflight"
)

// Attribute keys and status values recorded on every operation.
const (
	AttrOperation = "op"
	AttrStatus    = "status"

	StatusOK    = "ok"
	StatusError = "error"
)

// durationBuckets spans 1ms to 10s: single chart builds, full dashboard
// renders, HTTP requests and MCP tool calls.
var durationBuckets = []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// REDMetrics records rate, errors and duration per named operation. A nil
// *REDMetrics records nothing.
type REDMetrics struct {
	operations metric.Int64Counter
	duration   metric.Float64Histogram
	failures   metric.Int64Counter
	inflight   metric.Int64UpDownCounter
}

// NewREDMetrics creates the instruments on mt.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	var errs []error

	operations, err := mt.Int64Counter(MetricOperations,
		metric.WithDescription("Completed operations"), metric.WithUnit("{operation}"))
	errs = append(errs, err)

	duration, err := mt.Float64Histogram(MetricDuration,
		metric.WithDescription("Operation duration"), metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...))
	errs = append(errs, err)

	failures, err := mt.Int64Counter(MetricFailures,
		metric.WithDescription("Failed operations"), metric.WithUnit("{operation}"))
	errs = append(errs, err)

	inflight, err := mt.Int64UpDownCounter(MetricInflight,
		metric.WithDescription("Operations in progress"), metric.WithUnit("{operation}"))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("create operation metrics: %w", err)
	}

	return &REDMetrics{
		operations: operations,
		duration:   duration,
		failures:   failures,
		inflight:   inflight,
	}, nil
}

// Start marks op as in progress. The returned function ends it, recording
// its duration and whether status is StatusError.
func (m *REDMetrics) Start(ctx context.Context, op string) func(status string) {
	if m == nil {
		return func(string) {}
	}

	opAttr := attribute.String(AttrOperation, op)
	m.inflight.Add(ctx, 1, metric.WithAttributes(opAttr))

	start := time.Now()

	return func(status string) {
		m.inflight.Add(ctx, -1, metric.WithAttributes(opAttr))
		m.Record(ctx, op, status, time.Since(start))
	}
}

// Record counts one finished operation that took duration.
func (m *REDMetrics) Record(ctx context.Context, op, status string, duration time.Duration) {
	if m == nil {
		return
	}

	opAttr := attribute.String(AttrOperation, op)
	attrs := metric.WithAttributes(opAttr, attribute.String(AttrStatus, status))

	m.operations.Add(ctx, 1, attrs)
	m.duration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		m.failures.Add(ctx, 1, metric.WithAttributes(opAttr))
	}
}

// Status maps an operation error to StatusOK or StatusError.
func Status(err error) string {
	if err != nil {
		return StatusError
	}

	return StatusOK
}

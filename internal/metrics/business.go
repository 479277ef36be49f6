package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics records what the service does, as opposed to how HTTP traffic looks.
// domain groups operations ("secrets"); operation names one use case call such as
// "secret_create" or "secret_sweep"; status is "success" or an error kind.
type BusinessMetrics interface {
	RecordOperation(ctx context.Context, domain, operation, status string)
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordItems adds how many items one operation processed, such as the
	// secrets removed by one sweep. Non-positive counts are ignored.
	RecordItems(ctx context.Context, domain, operation string, count int)
}

type businessMetrics struct {
	operations metric.Int64Counter
	durations  metric.Float64Histogram
	items      metric.Int64Counter
}

// durationBuckets covers a cache hit (sub-millisecond) up to a slow store round trip.
var durationBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// NewBusinessMetrics registers the business instruments. Metric names are prefixed
// with namespace, e.g. secretdrop_operations_total.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)
	b := &businessMetrics{}
	var err error

	if b.operations, err = meter.Int64Counter(
		namespace+"_operations_total",
		metric.WithDescription("Total number of business operations"),
		metric.WithUnit("{operation}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	if b.durations, err = meter.Float64Histogram(
		namespace+"_operation_duration_seconds",
		metric.WithDescription("Duration of business operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	if b.items, err = meter.Int64Counter(
		namespace+"_items_processed_total",
		metric.WithDescription("Total number of items processed by business operations"),
		metric.WithUnit("{item}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create items counter: %w", err)
	}

	return b, nil
}

func operationAttrs(domain, operation string, extra ...attribute.KeyValue) metric.MeasurementOption {
	attrs := append([]attribute.KeyValue{
		attribute.String("domain", domain),
		attribute.String("operation", operation),
	}, extra...)
	return metric.WithAttributes(attrs...)
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operations.Add(ctx, 1, operationAttrs(domain, operation, attribute.String("status", status)))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durations.Record(ctx, duration.Seconds(), operationAttrs(domain, operation, attribute.String("status", status)))
}

func (b *businessMetrics) RecordItems(ctx context.Context, domain, operation string, count int) {
	if count <= 0 {
		return
	}
	b.items.Add(ctx, int64(count), operationAttrs(domain, operation))
}

// NoOpBusinessMetrics discards everything. Used when metrics are disabled.
type NoOpBusinessMetrics struct{}

func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(context.Context, string, string, string) {}

func (n *NoOpBusinessMetrics) RecordDuration(context.Context, string, string, time.Duration, string) {}

func (n *NoOpBusinessMetrics) RecordItems(context.Context, string, string, int) {}

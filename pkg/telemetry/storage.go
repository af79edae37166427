package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Dilyara077/practice-task/storage"

// StorageMetrics records one counter increment and one latency sample per
// storage operation, labelled by driver, operation and outcome.
type StorageMetrics struct {
	driver   string
	ops      metric.Int64Counter
	duration metric.Float64Histogram
}

// NewStorageMetrics registers the storage instruments on the global meter provider.
func NewStorageMetrics(driver string) (*StorageMetrics, error) {
	return NewStorageMetricsWithMeter(otel.Meter(meterName), driver)
}

// NewStorageMetricsWithMeter registers the storage instruments on meter.
func NewStorageMetricsWithMeter(meter metric.Meter, driver string) (*StorageMetrics, error) {
	ops, err := meter.Int64Counter("storage.operations",
		metric.WithDescription("Storage operations by driver, operation and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("storage operations counter: %w", err)
	}
	duration, err := meter.Float64Histogram("storage.operation.duration",
		metric.WithDescription("Storage operation latency"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("storage duration histogram: %w", err)
	}
	return &StorageMetrics{driver: driver, ops: ops, duration: duration}, nil
}

// Record reports one finished operation. outcome is "ok" or "error".
func (m *StorageMetrics) Record(ctx context.Context, op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("driver", m.driver),
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	)
	m.ops.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
}

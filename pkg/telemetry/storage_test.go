package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestStorageMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background()) //nolint:errcheck

	m, err := NewStorageMetricsWithMeter(mp.Meter("test"), "memory")
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}

	ctx := context.Background()
	m.Record(ctx, "find", time.Now(), nil)
	m.Record(ctx, "find", time.Now(), nil)
	m.Record(ctx, "insert", time.Now(), errors.New("boom"))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != "storage.operations" {
				continue
			}
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("unexpected data type %T", md.Data)
			}
			for _, dp := range sum.DataPoints {
				op, _ := dp.Attributes.Value(attribute.Key("operation"))
				outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
				counts[op.AsString()+"/"+outcome.AsString()] += dp.Value
			}
		}
	}

	if counts["find/ok"] != 2 {
		t.Errorf("expected 2 find/ok, got %d", counts["find/ok"])
	}
	if counts["insert/error"] != 1 {
		t.Errorf("expected 1 insert/error, got %d", counts["insert/error"])
	}
}

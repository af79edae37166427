// Package instrumented decorates a repository with OTel spans and storage metrics.
package instrumented

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Dilyara077/practice-task/pkg/telemetry"
	"github.com/Dilyara077/practice-task/services/item/domain/models"
	"github.com/Dilyara077/practice-task/services/item/domain/query"
	"github.com/Dilyara077/practice-task/services/item/domain/repositories"
)

const tracerName = "github.com/Dilyara077/practice-task/services/item/persistence"

// ItemRepository wraps another repositories.ItemRepository.
type ItemRepository struct {
	next    repositories.ItemRepository
	metrics *telemetry.StorageMetrics
	tracer  trace.Tracer
}

// Wrap returns next decorated with spans and metrics.
func Wrap(next repositories.ItemRepository, metrics *telemetry.StorageMetrics) *ItemRepository {
	return &ItemRepository{next: next, metrics: metrics, tracer: otel.Tracer(tracerName)}
}

func (r *ItemRepository) observe(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "storage."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		r.metrics.Record(ctx, op, start, err)
	}
}

func (r *ItemRepository) Find(ctx context.Context, c query.Criteria) (items []models.Item, err error) {
	ctx, done := r.observe(ctx, "find", attribute.String("criteria", c.String()))
	defer func() { done(err) }()
	return r.next.Find(ctx, c)
}

func (r *ItemRepository) FindByID(ctx context.Context, id string) (item *models.Item, err error) {
	ctx, done := r.observe(ctx, "find_by_id", attribute.String("item.id", id))
	defer func() { done(err) }()
	return r.next.FindByID(ctx, id)
}

func (r *ItemRepository) Insert(ctx context.Context, fields map[string]any) (id string, err error) {
	ctx, done := r.observe(ctx, "insert")
	defer func() { done(err) }()
	return r.next.Insert(ctx, fields)
}

func (r *ItemRepository) Update(ctx context.Context, id string, fields map[string]any) (err error) {
	ctx, done := r.observe(ctx, "update", attribute.String("item.id", id))
	defer func() { done(err) }()
	return r.next.Update(ctx, id, fields)
}

func (r *ItemRepository) Delete(ctx context.Context, id string) (err error) {
	ctx, done := r.observe(ctx, "delete", attribute.String("item.id", id))
	defer func() { done(err) }()
	return r.next.Delete(ctx, id)
}

func (r *ItemRepository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

// Package events is the document change bus shared by the API and the worker.
// The API publishes after a successful write; the worker consumes through a
// Watermill router.
//
// Delivery:
//   - Messages live in PostgreSQL (watermill-sql) and are load-balanced across
//     every worker sharing the <service>-consumer group.
//   - A failing handler is retried with exponential backoff. When retries run
//     out the message moves to PoisonTopic and is acked.
//   - Trace context travels in message metadata, so worker spans join the
//     request's trace.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/Dilyara077/practice-task/pkg/config"
	"github.com/Dilyara077/practice-task/pkg/logger"
)

// PoisonTopic receives messages whose handler kept failing.
const PoisonTopic = "documents.poison"

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = time.Second
	closeTimeout       = 30 * time.Second
)

// Handler processes one message. Returning an error triggers a retry.
// Handlers must be idempotent.
type Handler func(ctx context.Context, msg *message.Message) error

// EventBus pairs a publisher and subscriber on the same transport.
type EventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	db         *sql.DB // nil when the bus runs on a non-SQL transport
	log        logger.Logger
	wlog       watermill.LoggerAdapter

	maxAttempts int
	retryDelay  time.Duration
}

// NewEventBus connects to cfg.EventsDatabaseURL and sets up the Watermill SQL
// publisher and subscriber. Tables are created on first use.
func NewEventBus(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	db, err := sql.Open("pgx", cfg.EventsDatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}
	wlog := &slogAdapter{log: log}

	pub, err := watermillsql.NewPublisher(db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: true,
	}, wlog)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}

	sub, err := watermillsql.NewSubscriber(db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    cfg.ServiceName + "-consumer",
	}, wlog)
	if err != nil {
		_ = pub.Close()
		_ = db.Close()
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}

	bus := newEventBus(pub, sub, log)
	bus.db = db
	return bus, nil
}

func newEventBus(pub message.Publisher, sub message.Subscriber, log logger.Logger) *EventBus {
	return &EventBus{
		publisher:   pub,
		subscriber:  sub,
		log:         log,
		wlog:        &slogAdapter{log: log},
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
	}
}

// PublishJSON encodes payload and publishes it as one message with a fresh UUID.
func (b *EventBus) PublishJSON(ctx context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("events: encode %s payload: %w", topic, err)
	}
	return b.Publish(ctx, topic, message.NewMessage(uuid.NewString(), body))
}

// Publish sends msgs to topic with the trace context of ctx in their metadata.
func (b *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
	if err := b.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Consume routes each topic in handlers to its Handler and blocks until ctx
// is canceled or the router fails. In-flight handlers finish before it returns.
func (b *EventBus) Consume(ctx context.Context, handlers map[string]Handler) error {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: closeTimeout}, b.wlog)
	if err != nil {
		return fmt.Errorf("events: new router: %w", err)
	}

	poison, err := middleware.PoisonQueue(b.publisher, PoisonTopic)
	if err != nil {
		return fmt.Errorf("events: poison queue: %w", err)
	}
	router.AddMiddleware(
		poison,
		middleware.Retry{
			MaxRetries:      b.maxAttempts - 1,
			InitialInterval: b.retryDelay,
			Multiplier:      2,
			Logger:          b.wlog,
		}.Middleware,
		middleware.Recoverer,
		restoreTraceContext,
	)

	for topic, handle := range handlers {
		router.AddNoPublisherHandler(topic+".consumer", topic, b.subscriber, func(msg *message.Message) error {
			return handle(msg.Context(), msg)
		})
	}

	b.log.Info("events: consuming", "topics", len(handlers))
	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("events: router: %w", err)
	}
	return nil
}

// restoreTraceContext continues the publisher's trace in the handler.
func restoreTraceContext(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		carrier := propagation.MapCarrier{}
		for k, v := range msg.Metadata {
			carrier[k] = v
		}
		msg.SetContext(otel.GetTextMapPropagator().Extract(msg.Context(), carrier))
		return h(msg)
	}
}

// Ping checks the events database. A bus without one is always healthy.
func (b *EventBus) Ping(ctx context.Context) error {
	if b.db == nil {
		return nil
	}
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops the subscriber, then the publisher, then the database handle.
func (b *EventBus) Close() error {
	if err := b.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if err := b.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

// slogAdapter bridges logger.Logger to watermill.LoggerAdapter.
type slogAdapter struct{ log logger.Logger }

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(fieldsToArgs(fields), "error", err)...)
}
func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(fieldsToArgs(fields)...)}
}

func fieldsToArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}

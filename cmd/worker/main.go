package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/Dilyara077/practice-task/pkg/app"
	"github.com/Dilyara077/practice-task/pkg/cache"
	"github.com/Dilyara077/practice-task/pkg/config"
	"github.com/Dilyara077/practice-task/pkg/events"
	"github.com/Dilyara077/practice-task/pkg/logger"
	"github.com/Dilyara077/practice-task/pkg/telemetry"
	itemEvents "github.com/Dilyara077/practice-task/services/item/domain/events"
	"github.com/Dilyara077/practice-task/services/item/domain/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	if cfg.EventsDatabaseURL == "" || cfg.RedisURL == "" {
		log.Error("worker requires EVENTS_DATABASE_URL and REDIS_URL")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	appConfig := &app.Application{
		Config:   cfg,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
	}

	consumed := make(chan error, 1)
	go func() {
		consumed <- appConfig.EventBus.Consume(ctx, documentHandlers(appConfig))
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		log.Info("shutting down worker...")
		cancel()
		<-consumed
	case err := <-consumed:
		log.Error("event consumer stopped", "error", err)
	}
	log.Info("worker stopped")
}

// documentHandlers maps each item topic to its cache maintenance handler.
func documentHandlers(a *app.Application) map[string]events.Handler {
	documents := cache.NewDocumentCache(a.Redis, a.Config.ResourceName, a.Config.CacheTTL)
	return map[string]events.Handler{
		itemEvents.TopicItemCreated: handleItemCreated(documents, a.Logger),
		itemEvents.TopicItemUpdated: handleItemChanged(documents, a.Logger),
		itemEvents.TopicItemDeleted: handleItemChanged(documents, a.Logger),
	}
}

func decodeEvent(msg *message.Message) (itemEvents.ItemEvent, error) {
	var evt itemEvents.ItemEvent
	err := json.Unmarshal(msg.Payload, &evt)
	return evt, err
}

// handleItemCreated warms the document cache so the first read skips storage.
// The event carries create-time fields, so the warm is accepted only while
// the document is still at generation zero. Created and updated events are
// consumed independently, and a late created event must not undo an update.
func handleItemCreated(documents *cache.DocumentCache, log logger.Logger) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := decodeEvent(msg)
		if err != nil {
			return err
		}
		if evt.Resource != documents.Resource() || evt.Document == nil {
			return nil
		}

		fields := make(map[string]any, len(evt.Document))
		for k, v := range evt.Document {
			if k != models.IDField {
				fields[k] = v
			}
		}
		written, err := documents.Fill(ctx, evt.ItemID, 0, fields)
		if err != nil {
			log.WarnContext(ctx, "cache warm failed", "item_id", evt.ItemID, "error", err)
			return nil
		}
		if !written {
			log.DebugContext(ctx, "cache warm skipped, document already rewritten", "item_id", evt.ItemID)
			return nil
		}
		log.InfoContext(ctx, "cache warmed", "item_id", evt.ItemID, "resource", evt.Resource)
		return nil
	}
}

// handleItemChanged evicts the cached copy after an update or delete. The API
// already evicts synchronously; this covers replicas that served a stale read
// between the write and its eviction.
func handleItemChanged(documents *cache.DocumentCache, log logger.Logger) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := decodeEvent(msg)
		if err != nil {
			return err
		}
		if evt.Resource != documents.Resource() {
			return nil
		}
		if err := documents.Invalidate(ctx, evt.ItemID); err != nil {
			return err
		}
		log.DebugContext(ctx, "cache evicted", "item_id", evt.ItemID, "resource", evt.Resource)
		return nil
	}
}

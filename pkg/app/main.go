package app

import (
	"github.com/Dilyara077/practice-task/pkg/cache"
	"github.com/Dilyara077/practice-task/pkg/config"
	"github.com/Dilyara077/practice-task/pkg/database"
	"github.com/Dilyara077/practice-task/pkg/docstore"
	"github.com/Dilyara077/practice-task/pkg/events"
	"github.com/Dilyara077/practice-task/pkg/logger"
	"github.com/Dilyara077/practice-task/pkg/telemetry"
)

// Application holds shared infrastructure dependencies for all services.
// Every handle is connected and pinged in main before the HTTP server starts;
// pass the container to ItemRoutes during server initialization.
//
// Exactly one of Mongo and Db is set for the mongo and postgres drivers; both
// are nil for the in-memory driver. EventBus and Redis are nil when disabled.
//
// Logging: app.Logger is backed by a trace-aware handler; use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "document created", "item_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config   *config.Config
	Mongo    *docstore.Client
	Db       *database.Database
	Logger   logger.Logger
	EventBus *events.EventBus
	Redis    *cache.RedisClient
	Metrics  *telemetry.StorageMetrics // nil disables storage instrumentation
}

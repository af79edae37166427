package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/Dilyara077/practice-task/docs/swagger"
	"github.com/Dilyara077/practice-task/migrations/documents"
	"github.com/Dilyara077/practice-task/pkg/app"
	"github.com/Dilyara077/practice-task/pkg/cache"
	"github.com/Dilyara077/practice-task/pkg/config"
	"github.com/Dilyara077/practice-task/pkg/database"
	"github.com/Dilyara077/practice-task/pkg/docstore"
	"github.com/Dilyara077/practice-task/pkg/events"
	"github.com/Dilyara077/practice-task/pkg/httpx"
	"github.com/Dilyara077/practice-task/pkg/logger"
	"github.com/Dilyara077/practice-task/pkg/migrator"
	"github.com/Dilyara077/practice-task/pkg/telemetry"
	itemApi "github.com/Dilyara077/practice-task/services/item/application/api"
)

// @title						Practice Task API
// @version					1.0.0
// @description				REST CRUD over a single document collection.
// @license.name				MIT
// @license.url				https://opensource.org/licenses/MIT
// @host						localhost:3000
// @BasePath					/
// @schemes					http https
// @securityDefinitions.apikey	ApiKeyAuth
// @in							header
// @name						x-api-key
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

	// Telemetry: OTel tracing + metrics
	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Crash reporting: Sentry (optional, log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	appConfig := &app.Application{Config: cfg, Logger: log}

	// The store is connected and pinged before the server listens.
	closeStorage, err := openStorage(ctx, appConfig)
	if err != nil {
		log.Error("failed to connect to storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}
	defer closeStorage()

	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer redisClient.Close() //nolint:errcheck
		appConfig.Redis = redisClient
		log.Info("redis connected")
	}

	if cfg.EventsDatabaseURL != "" {
		eventBus, err := events.NewEventBus(cfg, log)
		if err != nil {
			log.Error("failed to setup event bus", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer eventBus.Close() //nolint:errcheck
		appConfig.EventBus = eventBus
	}

	metrics, err := telemetry.NewStorageMetrics(cfg.StorageDriver)
	if err != nil {
		log.Warn("storage metrics disabled", "error", err)
	} else {
		appConfig.Metrics = metrics
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			RateLimitPerMinute: cfg.RateLimitPerMinute,
		},
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
		logger.Middleware(log),
	)

	collection := "/api/" + cfg.ResourceName
	r.Get("/", httpx.IndexHandler(
		collection,
		collection+"?category=Electronics",
		collection+"?minPrice=100&sort=price",
		collection+"?fields=name,price",
		"/version",
	))
	r.Get("/version", httpx.VersionHandler(httpx.VersionInfo{
		Version: cfg.ServiceVersion,
		Name:    cfg.APIName,
		Status:  cfg.APIStatus,
	}))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	svcs := itemApi.ItemRoutes(r, appConfig)

	checks := httpx.HealthChecks{Storage: svcs.Item}
	if appConfig.Redis != nil {
		checks.Cache = appConfig.Redis
	}
	if appConfig.EventBus != nil {
		checks.EventBus = appConfig.EventBus
	}
	r.Get("/health", httpx.HealthHandler(checks))

	srv := httpx.NewServer(cfg.Addr(), r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment, "resource", cfg.ResourceName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	svcs.Item.Wait()
	log.Info("server stopped")
}

// openStorage connects the store selected by STORAGE_DRIVER and attaches it to
// a. The returned func releases the connection.
func openStorage(ctx context.Context, a *app.Application) (func(), error) {
	cfg, log := a.Config, a.Logger

	switch cfg.StorageDriver {
	case config.StorageMongo:
		client, err := docstore.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
		if err != nil {
			return nil, err
		}
		a.Mongo = client
		return func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(closeCtx)
		}, nil

	case config.StoragePostgres:
		db, err := database.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		if err := migrator.Up(ctx, db.DB(), documents.FS); err != nil {
			_ = db.Close()
			return nil, err
		}
		a.Db = db
		log.Info("database pool connected")
		return func() { _ = db.Close() }, nil

	case config.StorageMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		return func() {}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
}

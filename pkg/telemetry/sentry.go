package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/Dilyara077/practice-task/pkg/auth"
	"github.com/Dilyara077/practice-task/pkg/config"
)

// SetupSentry initializes the Sentry SDK. No-ops if DSN is empty.
func SetupSentry(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          cfg.ServiceName + "@" + cfg.ServiceVersion,
		TracesSampleRate: 0.2,
		BeforeSend:       scrubEvent,
		Tags: map[string]string{
			"resource":       cfg.ResourceName,
			"storage_driver": cfg.StorageDriver,
		},
	}); err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

// scrubEvent keeps the API key out of captured request headers.
func scrubEvent(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if event.Request == nil {
		return event
	}
	for name := range event.Request.Headers {
		if http.CanonicalHeaderKey(name) == auth.HeaderAPIKey {
			event.Request.Headers[name] = "[redacted]"
		}
	}
	return event
}

// SentryFlush flushes buffered events before process exit.
func SentryFlush() {
	sentry.Flush(2 * time.Second)
}

// SentryMiddleware captures panics and re-panics so logger.Recovery still
// writes the 500 response.
func SentryMiddleware() func(http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{Repanic: true, Timeout: 2 * time.Second}).Handle
}

package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const healthProbeTimeout = 2 * time.Second

// HealthChecker is anything with a Ping: the document store, the Redis cache
// and the event bus all qualify.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks lists the dependencies probed by /health. Only Storage is
// mandatory; a nil Cache or EventBus is reported as "disabled".
type HealthChecks struct {
	Storage  HealthChecker
	Cache    HealthChecker
	EventBus HealthChecker
}

// ComponentHealth is the probe result for one dependency.
type ComponentHealth struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HealthReport is the /health response body.
type HealthReport struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
}

// HealthHandler probes every configured dependency concurrently and answers
// 200 when all of them respond, 503 with status "degraded" otherwise.
// Probe errors are summarized; driver messages stay in the logs.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	named := map[string]HealthChecker{
		"storage":   checks.Storage,
		"cache":     checks.Cache,
		"event_bus": checks.EventBus,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
		defer cancel()

		report := HealthReport{Status: "ok", Components: make(map[string]ComponentHealth, len(named))}
		var mu sync.Mutex

		for name, checker := range named {
			if checker == nil {
				report.Components[name] = ComponentHealth{Status: "disabled"}
			}
		}

		var g errgroup.Group
		for name, checker := range named {
			if checker == nil {
				continue
			}
			g.Go(func() error {
				result := probe(ctx, checker)
				mu.Lock()
				report.Components[name] = result
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()

		status := http.StatusOK
		for _, c := range report.Components {
			if c.Status == "unreachable" {
				report.Status = "degraded"
				status = http.StatusServiceUnavailable
			}
		}
		JSON(w, status, report)
	}
}

func probe(ctx context.Context, c HealthChecker) ComponentHealth {
	start := time.Now()
	err := c.Ping(ctx)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		msg := "ping failed"
		if ctx.Err() != nil {
			msg = "timeout"
		}
		return ComponentHealth{Status: "unreachable", LatencyMS: elapsed, Error: msg}
	}
	return ComponentHealth{Status: "ok", LatencyMS: elapsed}
}

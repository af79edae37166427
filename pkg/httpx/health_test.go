package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dilyara077/practice-task/pkg/httpx"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	up   = pingFunc(func(context.Context) error { return nil })
	down = pingFunc(func(context.Context) error { return errors.New("connection refused") })
	hang = pingFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
)

func serveHealth(t *testing.T, checks httpx.HealthChecks) (int, httpx.HealthReport) {
	t.Helper()
	rr := httptest.NewRecorder()
	httpx.HealthHandler(checks).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type: got %q", ct)
	}
	var report httpx.HealthReport
	if err := json.NewDecoder(rr.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rr.Code, report
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		checks     httpx.HealthChecks
		wantCode   int
		wantStatus string
		want       map[string]string
	}{
		{
			name:       "all dependencies up",
			checks:     httpx.HealthChecks{Storage: up, Cache: up, EventBus: up},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			want:       map[string]string{"storage": "ok", "cache": "ok", "event_bus": "ok"},
		},
		{
			name:       "optional dependencies not configured",
			checks:     httpx.HealthChecks{Storage: up},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			want:       map[string]string{"storage": "ok", "cache": "disabled", "event_bus": "disabled"},
		},
		{
			name:       "document store down",
			checks:     httpx.HealthChecks{Storage: down, Cache: up},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
			want:       map[string]string{"storage": "unreachable", "cache": "ok", "event_bus": "disabled"},
		},
		{
			name:       "cache down degrades the service",
			checks:     httpx.HealthChecks{Storage: up, Cache: down},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
			want:       map[string]string{"storage": "ok", "cache": "unreachable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, report := serveHealth(t, tt.checks)

			if code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, code)
			}
			if report.Status != tt.wantStatus {
				t.Errorf("status: got %q, want %q", report.Status, tt.wantStatus)
			}
			for name, want := range tt.want {
				if got := report.Components[name].Status; got != want {
					t.Errorf("%s: got %q, want %q", name, got, want)
				}
			}
		})
	}
}

func TestHealthHandler_HidesDriverErrors(t *testing.T) {
	_, report := serveHealth(t, httpx.HealthChecks{Storage: down})

	if got := report.Components["storage"].Error; got != "ping failed" {
		t.Errorf("error: got %q, want %q", got, "ping failed")
	}
}

func TestHealthHandler_ProbeTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the probe deadline")
	}
	code, report := serveHealth(t, httpx.HealthChecks{Storage: up, EventBus: hang})

	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
	if got := report.Components["event_bus"].Error; got != "timeout" {
		t.Errorf("error: got %q, want %q", got, "timeout")
	}
}

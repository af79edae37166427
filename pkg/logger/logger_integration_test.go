package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func setupTracer(t *testing.T) {
	t.Helper()
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &m); err != nil {
		t.Fatalf("failed to parse log line %q: %v", lines[len(lines)-1], err)
	}
	return m
}

func TestTraceFields(t *testing.T) {
	setupTracer(t)

	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug")

	log.InfoContext(context.Background(), "no span")
	if entry := lastEntry(t, &buf); entry["trace_id"] != nil || entry["span_id"] != nil {
		t.Errorf("trace fields must be absent without a span: %v", entry)
	}

	ctx, parent := otel.Tracer("test").Start(context.Background(), "list")
	log.ErrorContext(ctx, "storage failed", "error", errors.New("boom"), "item_id", "65a1f0c2e4b0a1b2c3d4e5f6")
	parentEntry := lastEntry(t, &buf)

	ctx, child := otel.Tracer("test").Start(ctx, "find")
	log.DebugContext(ctx, "query")
	childEntry := lastEntry(t, &buf)
	child.End()
	parent.End()

	if parentEntry["trace_id"] == nil || parentEntry["error"] == nil || parentEntry["item_id"] == nil {
		t.Errorf("unexpected parent entry %v", parentEntry)
	}
	if parentEntry["trace_id"] != childEntry["trace_id"] {
		t.Errorf("expected same trace_id: %v vs %v", parentEntry["trace_id"], childEntry["trace_id"])
	}
	if parentEntry["span_id"] == childEntry["span_id"] {
		t.Error("expected different span_ids for parent and child")
	}
}

func TestNewWithWriter_Level(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, false},
		{"bogus", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(&buf, tt.level)
			log.Debug("d")
			log.Info("i")
			out := buf.String()
			if got := strings.Contains(out, `"msg":"d"`); got != tt.debugSeen {
				t.Errorf("debug emitted=%v, want %v", got, tt.debugSeen)
			}
			if got := strings.Contains(out, `"msg":"i"`); got != tt.infoSeen {
				t.Errorf("info emitted=%v, want %v", got, tt.infoSeen)
			}
		})
	}
}

func TestMiddleware_RequestFields(t *testing.T) {
	setupTracer(t)

	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Middleware(log))
	r.Delete("/api/products/{id}", func(w http.ResponseWriter, req *http.Request) {
		_, span := otel.Tracer("test").Start(req.Context(), "handler")
		defer span.End()
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/products/65a1f0c2e4b0a1b2c3d4e5f6", http.NoBody)
	req.Header.Set("x-api-key", "super-secret")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entry := lastEntry(t, &buf)
	if entry["request_id"] == nil {
		t.Error("expected request_id in request log")
	}
	if entry["method"] != http.MethodDelete {
		t.Errorf("expected method DELETE, got %v", entry["method"])
	}
	if entry["route"] != "/api/products/{id}" {
		t.Errorf("expected route pattern, got %v", entry["route"])
	}
	if entry["api_key"] != true {
		t.Errorf("expected api_key=true, got %v", entry["api_key"])
	}
	if strings.Contains(buf.String(), "super-secret") {
		t.Fatal("the API key value must never be logged")
	}
}

func TestMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		status    int
		wantLevel string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusNotFound, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(&buf, "info")

			h := Middleware(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("hello"))
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products?sort=price", http.NoBody))

			entry := lastEntry(t, &buf)
			if entry["level"] != tt.wantLevel {
				t.Errorf("level: got %v, want %s", entry["level"], tt.wantLevel)
			}
			if entry["query"] != "sort=price" {
				t.Errorf("query: got %v", entry["query"])
			}
			if entry["bytes"] != float64(5) {
				t.Errorf("bytes: got %v", entry["bytes"])
			}
		})
	}
}

func TestMiddleware_ImplicitOK(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	h := Middleware(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/version", http.NoBody))

	if entry := lastEntry(t, &buf); entry["status"] != float64(http.StatusOK) {
		t.Errorf("expected status 200, got %v", entry["status"])
	}
}

func TestRecovery_WritesJSON500(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	h := Recovery(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/api/items/x", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	entry := lastEntry(t, &buf)
	if entry["msg"] != "panic recovered" || entry["stack"] == nil || entry["path"] != "/api/items/x" {
		t.Errorf("unexpected log entry: %v", entry)
	}
}

func TestNop_DiscardsOutput(t *testing.T) {
	log := Nop()
	log.Error("ignored", "k", "v")
	if log.ToSlog() == nil {
		t.Fatal("expected underlying slog logger")
	}
}

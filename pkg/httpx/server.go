package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
)

const (
	defaultRateLimit      = 100
	defaultMaxBodyBytes   = 1 << 20 // 1 MB
	defaultHandlerTimeout = 30 * time.Second
)

// ServerConfig holds the options for NewRouter. Zero values pick defaults.
type ServerConfig struct {
	IsDevelopment bool
	// CORSAllowedOrigins is a comma-separated list of allowed origins.
	// Pass "*" (dev only) to allow all origins.
	CORSAllowedOrigins string
	// RateLimitPerMinute caps requests per client IP; zero means 100.
	RateLimitPerMinute int
	MaxBodyBytes       int64
	HandlerTimeout     time.Duration
}

// NewRouter returns a chi.Mux with the standard middleware stack and the JSON
// 404 fallback for unknown paths and unsupported methods.
//
// Order, outermost first: RequestID, then the given app middlewares in order
// (typically recovery, sentry, otel, request log), then RealIP, CleanPath,
// per-IP rate limit, CORS, body limit, handler timeout and security headers.
func NewRouter(cfg ServerConfig, app ...func(http.Handler) http.Handler) *chi.Mux {
	sec := secure.New(secure.Options{
		STSSeconds:            63072000,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'",
		IsDevelopment:         cfg.IsDevelopment,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(app...)
	r.Use(
		middleware.RealIP,
		middleware.CleanPath,
		RateLimit(cfg.RateLimitPerMinute),
		CORSMiddleware(cfg.CORSAllowedOrigins),
		RequestBodyLimit(orDefault(cfg.MaxBodyBytes, defaultMaxBodyBytes)),
		middleware.Timeout(orDefault(cfg.HandlerTimeout, defaultHandlerTimeout)),
		sec.Handler,
	)
	r.NotFound(NotFoundHandler)
	r.MethodNotAllowed(NotFoundHandler)
	return r
}

// NotFoundHandler is the routing fallback: any path or method without a
// declared operation gets {"error": "API endpoint not found"} with 404.
func NotFoundHandler(w http.ResponseWriter, _ *http.Request) {
	JSONError(w, http.StatusNotFound, "API endpoint not found")
}

// RateLimit caps requests per client IP per minute and answers excess
// requests with a JSON 429.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		perMinute = defaultRateLimit
	}
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			JSONError(w, http.StatusTooManyRequests, "Too many requests")
		}),
	)
}

// CORSMiddleware allows the CRUD methods and the x-api-key header from the
// comma-separated origins. "*" allows every origin (development only).
func CORSMiddleware(allowedOrigins string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: parseOrigins(allowedOrigins),
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id", "X-Api-Key"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}

func parseOrigins(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// RequestBodyLimit caps the request body at maxBytes. Reads past the cap
// fail, which the JSON decoders report as invalid JSON.
func RequestBodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// NewServer returns an *http.Server with production timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

func orDefault[T int64 | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}

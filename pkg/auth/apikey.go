// Package auth implements the access gate for write operations.
package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/Dilyara077/practice-task/pkg/httpx"
	"github.com/Dilyara077/practice-task/pkg/logger"
)

// HeaderAPIKey is the request header carrying the shared secret.
const HeaderAPIKey = "X-Api-Key"

// RequireAPIKey is a chi middleware that admits a request only when its
// x-api-key header equals key. A missing header gets 401; a present but wrong
// value gets 403. The handler is never invoked on rejection.
//
// key is read once at startup; an empty key rejects every request.
func RequireAPIKey(key string, log logger.Logger) func(http.Handler) http.Handler {
	want := []byte(key)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(HeaderAPIKey)
			if got == "" {
				log.WarnContext(r.Context(), "api key missing", "method", r.Method, "path", r.URL.Path)
				httpx.JSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if len(want) == 0 || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				log.WarnContext(r.Context(), "api key rejected", "method", r.Method, "path", r.URL.Path)
				httpx.JSONError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

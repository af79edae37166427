package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dilyara077/practice-task/pkg/logger"
)

const testKey = "0123456789abcdef0123456789abcdef"

func serve(t *testing.T, key string, header *string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodPost, "/api/products", nil)
	if header != nil {
		r.Header.Set(HeaderAPIKey, *header)
	}
	w := httptest.NewRecorder()
	RequireAPIKey(key, logger.Nop())(next).ServeHTTP(w, r)
	return w, called
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	return body["error"]
}

func TestRequireAPIKey_ValidKey(t *testing.T) {
	key := testKey
	w, called := serve(t, testKey, &key)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !called {
		t.Fatal("next handler should be called with a valid key")
	}
}

func TestRequireAPIKey_MissingHeader(t *testing.T) {
	w, called := serve(t, testKey, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if called {
		t.Fatal("next handler must not be called without a key")
	}
	if got := errorBody(t, w); got != "Unauthorized" {
		t.Fatalf("expected Unauthorized, got %q", got)
	}
}

func TestRequireAPIKey_WrongKey(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"different value", "not-the-key"},
		{"prefix of key", testKey[:10]},
		{"key with suffix", testKey + "x"},
		{"case differs", "0123456789ABCDEF0123456789ABCDEF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.value
			w, called := serve(t, testKey, &v)

			if w.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", w.Code)
			}
			if called {
				t.Fatal("next handler must not be called with a wrong key")
			}
			if got := errorBody(t, w); got != "Forbidden" {
				t.Fatalf("expected Forbidden, got %q", got)
			}
		})
	}
}

func TestRequireAPIKey_HeaderIsCaseInsensitive(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	r := httptest.NewRequest(http.MethodDelete, "/api/products/1", nil)
	r.Header.Set("x-api-key", testKey)
	w := httptest.NewRecorder()
	RequireAPIKey(testKey, logger.Nop())(next).ServeHTTP(w, r)

	if !called {
		t.Fatalf("expected lower-case header to be accepted, got %d", w.Code)
	}
}

func TestRequireAPIKey_EmptyConfiguredKeyRejects(t *testing.T) {
	v := "anything"
	w, called := serve(t, "", &v)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if called {
		t.Fatal("next handler must not be called when no key is configured")
	}
}

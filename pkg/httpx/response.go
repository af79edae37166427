package httpx

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

// JSON encodes v as the response body with the given status. An encoding
// failure after the header is written cannot be reported, so it is dropped.
func JSON(w http.ResponseWriter, status int, v any) {
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes {"error": msg}.
func JSONError(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}

// JSONMessage writes {"message": msg}, the confirmation shape used by
// replace, update and delete.
func JSONMessage(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, messageBody{Message: msg})
}

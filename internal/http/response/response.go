// Package response writes JSON responses outside the huma API: bodies for routes the
// router answers itself, in the {"detail": ...} error shape the client parses.
package response

import (
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
)

// ErrorBody is the error response structure.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// JSON writes data as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		if logger != nil {
			logger.Error("Failed to encode JSON response", "error", err)
		}
	}
}

// Success writes a 200 OK JSON response.
func Success(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, data, logger)
}

// Error writes an error response carrying message as the detail.
func Error(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	JSON(w, status, ErrorBody{Detail: message}, logger)
}

// NotFound returns a handler answering unknown routes with 404 {"detail": "Not Found"}.
func NotFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		Error(w, http.StatusNotFound, "Not Found", logger)
	}
}

// MethodNotAllowed returns a handler answering 405 {"detail": "Method Not Allowed"}.
func MethodNotAllowed(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		Error(w, http.StatusMethodNotAllowed, "Method Not Allowed", logger)
	}
}

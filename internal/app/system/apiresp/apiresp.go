// Package apiresp writes the JSON bodies used by the admin and public APIs.
package apiresp

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// GenericError is the only text clients see for backend failures.
const GenericError = "Internal server error"

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}

// Internal logs err with full detail and writes the generic 500 body.
func Internal(w http.ResponseWriter, r *http.Request, log *zap.Logger, msg string, err error) {
	log.Error(msg, zap.Error(err), zap.String("path", r.URL.Path), zap.String("method", r.Method))
	Error(w, http.StatusInternalServerError, GenericError)
}

// Success writes {"success": true}.
func Success(w http.ResponseWriter) {
	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

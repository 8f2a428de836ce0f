// Package apiresp writes the JSON bodies returned by the /api endpoints.
package apiresp

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ServerErrorBody is the opaque body sent for any internal failure.
const ServerErrorBody = "Internal server error"

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// ServerError logs err with the request path and writes a 500 whose body is
// the JSON string "Internal server error". The cause never reaches the caller.
func ServerError(w http.ResponseWriter, r *http.Request, log *zap.Logger, msg string, err error) {
	if log != nil {
		log.Error(msg,
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
	}
	JSON(w, http.StatusInternalServerError, ServerErrorBody)
}

// Decode reads a JSON body into dst, rejecting unknown fields and bodies
// larger than limit bytes.
func Decode(w http.ResponseWriter, r *http.Request, dst any, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

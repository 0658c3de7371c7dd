// Package handler contains the HTTP layer: request parsing, multipart
// staging, and the uniform response envelope. Domain errors from the service
// layer are translated to status codes here and nowhere else.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tahmid/peakbook/internal/apperror"
)

// envelope is the uniform response shape of every endpoint:
// {"success": bool, "data": ..., "message": "..."}.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// writeJSON sends the envelope with the given status. Headers and status
// must be set before the body goes out; an encode failure after that can
// only be logged.
func writeJSON(w http.ResponseWriter, status int, e envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(e); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeData sends a success envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeMessage sends a success envelope carrying data and a human-readable
// message.
func writeMessage(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

// writeError maps a domain error to its status code. errors.Is walks the
// wrap chain, so services can annotate errors freely on the way up. Errors
// outside the taxonomy become a generic 500 — internal detail (paths, file
// contents) never reaches the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthenticated):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		}

		writeJSON(w, status, envelope{Success: false, Message: appErr.Message, Data: appErr.Data})
		return
	}

	writeJSON(w, http.StatusInternalServerError, envelope{
		Success: false,
		Message: "an internal error occurred",
	})
}

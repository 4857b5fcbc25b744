package handler

// RESPONSE HELPERS:
// Every error response from the facade has the same shape:
//   {"error": "duplicate_account", "message": "...", "field": "email"}
//
// The mobile shell keys its inline form errors off "field" and shows
// "message" verbatim.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/sportify/internal/apperror"
)

// maxBodyBytes bounds request bodies. Data-URI avatars are the largest
// payload the facade accepts.
const maxBodyBytes = 2 << 20

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`           // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"`         // Human-readable description
	Field   string `json:"field,omitempty"` // Form field the error belongs to
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be set before the body is written.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("", "invalid JSON request body")
	}
	return nil
}

// writeError maps a domain error to an HTTP status code and sends it.
//
// The service layer returns apperror sentinels and knows nothing about
// HTTP. This is the one place they become status codes.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		// Never expose internal error details to the client.
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}

	status := http.StatusInternalServerError
	errorType := "internal_error"

	switch {
	case errors.Is(err, apperror.ErrValidation):
		status = http.StatusBadRequest
		errorType = "validation_error"
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
		errorType = "not_found"
	case errors.Is(err, apperror.ErrDuplicateAccount):
		status = http.StatusConflict
		errorType = "duplicate_account"
	case errors.Is(err, apperror.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		errorType = "invalid_credentials"
	case errors.Is(err, apperror.ErrNotAuthenticated):
		status = http.StatusUnauthorized
		errorType = "unauthorized"
	case errors.Is(err, apperror.ErrRemoteService):
		status = http.StatusBadGateway
		errorType = "remote_service_error"
	case errors.Is(err, apperror.ErrStorage):
		errorType = "storage_error"
	}

	writeJSON(w, status, ErrorResponse{
		Error:   errorType,
		Message: appErr.Message,
		Field:   appErr.Field,
	})
}

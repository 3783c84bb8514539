package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	app_errors "muse-ai/backend/internal/errors"
)

// Shared DTOs for API responses and helpers for sending consistent HTTP
// responses.

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// StatusResponse defines a generic success response for operations that do
// not return a resource.
type StatusResponse struct {
	Status string `json:"status"`
}

// UpdateTitleRequest is the DTO for the manual title update endpoint.
type UpdateTitleRequest struct {
	Title string `json:"title" validate:"required,min=1,max=100" example:"Trip planning"`
}

// respondWithError maps business-layer sentinel errors to HTTP status codes
// and writes a standard JSON error body. Unrecognized errors become a generic
// 500 so implementation details never leak to the client.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, app_errors.ErrPermission):
		statusCode = http.StatusUnauthorized
		message = "User not authenticated."
	case errors.Is(err, app_errors.ErrConflict):
		statusCode = http.StatusConflict
		message = "The conversation was modified by another request. Reload and retry."
	case errors.Is(err, app_errors.ErrTranscription):
		statusCode = http.StatusBadGateway
		message = "Audio transcription failed."
	case errors.Is(err, app_errors.ErrModel):
		statusCode = http.StatusBadGateway
		message = "The AI model request failed."
	case errors.Is(err, app_errors.ErrNotPersisted):
		statusCode = http.StatusInternalServerError
		message = "The AI response was generated but could not be saved."
	default:
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondWithJSON marshals a payload and writes it with the given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

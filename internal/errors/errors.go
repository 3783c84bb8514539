package errors

import "errors"

// This package defines a centralized set of sentinel errors for the application.
// Services return these (usually wrapped with fmt.Errorf and %w) instead of
// HTTP status codes; the API layer checks them with errors.Is and maps them to
// responses, keeping business logic free of transport concerns.

var (
	// ErrNotFound signifies that a requested resource could not be located, or
	// that it exists but is not owned by the requesting user. Maps to 404.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that client input failed validation. Maps to 400.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that a save lost an optimistic-concurrency race and
	// the caller should reload and retry. Maps to 409.
	ErrConflict = errors.New("resource conflict")

	// ErrPermission signifies that the request carries no usable identity or
	// may not perform the requested action. Maps to 401.
	ErrPermission = errors.New("permission denied")

	// ErrTranscription signifies that the speech-to-text provider failed to
	// transcribe an audio message. Nothing is persisted for the turn.
	ErrTranscription = errors.New("transcription failed")

	// ErrModel signifies that the language-model call failed, either up front
	// or mid-stream. Partial output is discarded and never persisted.
	ErrModel = errors.New("model request failed")

	// ErrNotPersisted signifies that a model response was fully generated and
	// delivered but the final conversation write failed. The client holds text
	// that the store does not; it is surfaced distinctly so callers can react.
	ErrNotPersisted = errors.New("response generated but not saved")

	// ErrInternal signifies an unexpected server-side failure. Maps to 500.
	ErrInternal = errors.New("internal server error")
)

package repository

import "errors"

// Repository-level sentinel errors. The service layer translates these into
// domain errors so business logic never touches driver error types.

var (
	// ErrNotFound is returned when a single-document lookup matches nothing.
	ErrNotFound = errors.New("repository: not found")

	// ErrConflict is returned when an optimistic-lock save finds the document
	// at a different version than the one it was loaded at.
	ErrConflict = errors.New("repository: version conflict")
)

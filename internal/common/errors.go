package common

import "errors"

// Sentinel errors shared by the form and workspace layers. Typed errors in
// internal/form match these through Is, so handlers map them to HTTP status
// with errors.Is only.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

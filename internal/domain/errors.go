package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. fewer than two locations, guests out of range).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the caller's role is insufficient for the
// requested operation (collaborator attempting an owner-only edit, stranger
// touching someone else's trip). Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized is returned when no valid caller identity accompanies the
// request. Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict is returned when a read-modify-write save loses the race to a
// concurrent writer (revision mismatch). Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

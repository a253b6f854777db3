// Package domain contains the core data types for the TripMate API.
// This package has zero external dependencies beyond uuid/time and is
// imported by every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
// PasswordHash is a bcrypt hash and must never be serialized to clients —
// the handler layer maps User to a response shape that omits it.
type User struct {
	ID                uuid.UUID
	Name              string
	Email             string
	PasswordHash      string
	ImageURL          string
	Phone             string
	EmergencyContacts []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

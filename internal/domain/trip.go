package domain

import (
	"time"

	"github.com/google/uuid"
)

// Attraction is one saved attraction inside a trip location, keyed by the
// external placeId of the place provider.
type Attraction struct {
	PlaceID string    `json:"placeId"`
	Name    string    `json:"name"`
	Type    string    `json:"type"`
	Rating  float64   `json:"rating"`
	Image   string    `json:"image"`
	AddedBy uuid.UUID `json:"addedBy"`
}

// Hotel mirrors Attraction but carries a free-text price instead of a type.
type Hotel struct {
	PlaceID string    `json:"placeId"`
	Name    string    `json:"name"`
	Price   string    `json:"price"`
	Rating  float64   `json:"rating"`
	Image   string    `json:"image"`
	AddedBy uuid.UUID `json:"addedBy"`
}

// Location is one day-keyed stop within a trip, holding candidate
// attractions and hotels collected by the trip's members.
// Latitude/Longitude are nil when the client did not geocode the place.
type Location struct {
	PlaceID     string       `json:"placeId"`
	PlaceName   string       `json:"placeName"`
	Day         int          `json:"day"`
	Latitude    *float64     `json:"latitude,omitempty"`
	Longitude   *float64     `json:"longitude,omitempty"`
	AddedBy     *uuid.UUID   `json:"addedBy,omitempty"`
	Attractions []Attraction `json:"attractions"`
	Hotels      []Hotel      `json:"hotels"`
}

// Trip is the top-level planning document: one owner, a set of
// collaborators, and an ordered list of at least two locations.
// Revision is the optimistic-concurrency token: every save increments it and
// a save against a stale revision fails with ErrConflict.
type Trip struct {
	ID            uuid.UUID   `json:"id"`
	Owner         uuid.UUID   `json:"user"`
	Collaborators []uuid.UUID `json:"collaborators"`
	StartLocation Location    `json:"startLocation"`
	Locations     []Location  `json:"locations"`
	StartDate     time.Time   `json:"startDate"`
	Guests        int         `json:"guests"`
	Budget        string      `json:"budget,omitempty"`
	Revision      int64       `json:"-"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// TripWithRole pairs a trip with the caller's relationship to it,
// used by the list-my-trips operation.
type TripWithRole struct {
	Trip
	IsOwner bool `json:"isOwner"`
}

// IsCollaborator reports whether userID is in the collaborator set.
func (t *Trip) IsCollaborator(userID uuid.UUID) bool {
	for _, c := range t.Collaborators {
		if c == userID {
			return true
		}
	}
	return false
}

// ToggleAttraction applies the symmetric saved/unsaved toggle to the
// location's attraction list: if no entry shares a.PlaceID the entry is
// inserted at the head, otherwise the existing entry is removed.
// Returns true when the entry was added, false when it was removed.
//
// The toggle is its own inverse but NOT retry-safe: re-sending the same
// request after an unacknowledged success inverts the state again.
func (l *Location) ToggleAttraction(a Attraction) bool {
	for i, existing := range l.Attractions {
		if existing.PlaceID == a.PlaceID {
			l.Attractions = append(l.Attractions[:i], l.Attractions[i+1:]...)
			return false
		}
	}
	l.Attractions = append([]Attraction{a}, l.Attractions...)
	return true
}

// ToggleHotel is the hotel-list counterpart of ToggleAttraction.
func (l *Location) ToggleHotel(h Hotel) bool {
	for i, existing := range l.Hotels {
		if existing.PlaceID == h.PlaceID {
			l.Hotels = append(l.Hotels[:i], l.Hotels[i+1:]...)
			return false
		}
	}
	l.Hotels = append([]Hotel{h}, l.Hotels...)
	return true
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Plan block types. A block references either a saved attraction or a
// saved hotel from the parent trip.
const (
	BlockTypeAttraction = "attraction"
	BlockTypeHotel      = "hotel"
)

// PlanBlock is one ordered entry in a day plan's sequence.
type PlanBlock struct {
	PlaceID   string    `json:"placeId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Image     string    `json:"image"`
	Rating    float64   `json:"rating"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	AddedBy   uuid.UUID `json:"addedBy"`
}

// DayPlan is a per-day itinerary scoped to one trip and one of its
// locations. It carries no permission state of its own — all access rules
// derive from the parent trip via TripID plus the CreatedBy reference.
// UpdatedBy is nil until the first update.
type DayPlan struct {
	ID         uuid.UUID   `json:"id"`
	Title      string      `json:"planTitle"`
	TripID     uuid.UUID   `json:"tripId"`
	LocationID string      `json:"locationId"`
	Day        int         `json:"day"`
	Sequence   []PlanBlock `json:"sequence"`
	IsStarred  bool        `json:"isStarred"`
	CreatedBy  uuid.UUID   `json:"createdBy"`
	UpdatedBy  *uuid.UUID  `json:"updatedBy,omitempty"`
	Revision   int64       `json:"-"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

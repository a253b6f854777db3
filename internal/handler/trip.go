package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/nkulkarni/tripmate/internal/domain"
	"github.com/nkulkarni/tripmate/internal/middleware"
)

// tripRequest is the shared POST/PUT trip payload. Owner and collaborators
// are never read from the body: the owner is the authenticated caller and
// the collaborator set is managed by the collaboration endpoints.
type tripRequest struct {
	StartLocation domain.Location    `json:"startLocation"`
	Locations     []domain.Location  `json:"locations"`
	StartDate     openapi_types.Date `json:"startDate"`
	Guests        *int               `json:"guests"`
	Budget        string             `json:"budget,omitempty"`
}

// toTrip converts the request payload into a domain.Trip.
// Returns an error when required fields are structurally absent; range and
// shape rules belong to the service layer.
func (b *tripRequest) toTrip() (domain.Trip, error) {
	if b.Guests == nil {
		return domain.Trip{}, errors.New("guests is required")
	}
	return domain.Trip{
		StartLocation: b.StartLocation,
		Locations:     b.Locations,
		StartDate:     b.StartDate.Time,
		Guests:        *b.Guests,
		Budget:        b.Budget,
	}, nil
}

// handleCreateTrip handles POST /api/trips.
func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	var body tripRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	trip, err := body.toTrip()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), trip, caller.ID)
	if err != nil {
		writeDomainError(w, r, err, "trip not found")
		return
	}

	respond(w, http.StatusCreated, map[string]any{"success": true, "trip": created})
}

// handleListTrips handles GET /api/trips: the union of trips the caller
// owns and trips they collaborate on, newest first, each with isOwner.
func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	trips, err := s.trips.ListMine(r.Context(), caller.ID)
	if err != nil {
		writeDomainError(w, r, err, "trip not found")
		return
	}

	respond(w, http.StatusOK, map[string]any{"success": true, "trips": trips, "count": len(trips)})
}

// handleGetTrip handles GET /api/trips/{id}.
// Open to any authenticated caller: trip ids are unguessable and shared as
// deep links.
func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid trip id format")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, "trip not found")
		return
	}

	respond(w, http.StatusOK, map[string]any{"success": true, "trip": trip})
}

// handleEditTrip handles PUT /api/trips/{id} behind the owner gate.
// Wholesale replaces startLocation, locations, startDate, guests.
func (s *Server) handleEditTrip(w http.ResponseWriter, r *http.Request) {
	trip, _ := middleware.TripFrom(r.Context())

	var body tripRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	changes, err := body.toTrip()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.trips.Edit(r.Context(), trip, changes)
	if err != nil {
		writeDomainError(w, r, err, "trip not found")
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "trip updated successfully",
		"trip":    updated,
	})
}

// handleDeleteTrip handles DELETE /api/trips/{id}.
// Ownership is enforced by the delete's owner-scoped filter: a trip that
// exists but is not the caller's reads as 404, deliberately
// indistinguishable from a trip that never existed.
func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid trip id format")
		return
	}

	if err := s.trips.Delete(r.Context(), id, caller.ID); err != nil {
		writeDomainError(w, r, err, "trip not found")
		return
	}

	respond(w, http.StatusOK, map[string]any{"success": true, "message": "trip deleted successfully"})
}

// handleAppendLocation handles POST /api/trips/{id}/locations behind the
// member gate.
func (s *Server) handleAppendLocation(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())
	trip, _ := middleware.TripFrom(r.Context())

	var loc domain.Location
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.trips.AppendLocation(r.Context(), trip, loc, caller.ID)
	if err != nil {
		writeDomainError(w, r, err, "trip not found")
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "location added successfully",
		"trip":    updated,
	})
}

// toggleAttractionRequest is the PATCH /api/trips/attraction payload.
type toggleAttractionRequest struct {
	TripID        string             `json:"tripId"`
	LocationIndex *int               `json:"locationIndex"`
	Attraction    *domain.Attraction `json:"attraction"`
}

// toggleHotelRequest is the PATCH /api/trips/hotel payload.
type toggleHotelRequest struct {
	TripID        string        `json:"tripId"`
	LocationIndex *int          `json:"locationIndex"`
	Hotel         *domain.Hotel `json:"hotel"`
}

// handleToggleAttraction handles PATCH /api/trips/attraction behind the
// member gate (tripId sourced from the body).
//
// This is a state transition, not an idempotent upsert: a retried toggle
// after an unacknowledged success inverts the state again.
func (s *Server) handleToggleAttraction(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())
	trip, _ := middleware.TripFrom(r.Context())

	var body toggleAttractionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.LocationIndex == nil || body.Attraction == nil || body.Attraction.PlaceID == "" {
		respondError(w, http.StatusBadRequest, "tripId, locationIndex, and a valid attraction object are required")
		return
	}

	added, _, err := s.trips.ToggleAttraction(r.Context(), trip, *body.LocationIndex, *body.Attraction, caller.ID)
	if err != nil {
		writeDomainError(w, r, err, "trip not found")
		return
	}

	respond(w, http.StatusOK, map[string]any{"success": true, "added": added, "message": toggleMessage("attraction", added)})
}

// handleToggleHotel handles PATCH /api/trips/hotel behind the member gate.
// Same non-retriable toggle semantics as attractions.
func (s *Server) handleToggleHotel(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())
	trip, _ := middleware.TripFrom(r.Context())

	var body toggleHotelRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.LocationIndex == nil || body.Hotel == nil || body.Hotel.PlaceID == "" {
		respondError(w, http.StatusBadRequest, "tripId, locationIndex, and a valid hotel object are required")
		return
	}

	added, _, err := s.trips.ToggleHotel(r.Context(), trip, *body.LocationIndex, *body.Hotel, caller.ID)
	if err != nil {
		writeDomainError(w, r, err, "trip not found")
		return
	}

	respond(w, http.StatusOK, map[string]any{"success": true, "added": added, "message": toggleMessage("hotel", added)})
}

func toggleMessage(kind string, added bool) string {
	if added {
		return kind + " added"
	}
	return kind + " removed"
}

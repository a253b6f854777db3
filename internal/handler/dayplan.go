package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nkulkarni/tripmate/internal/domain"
	"github.com/nkulkarni/tripmate/internal/middleware"
)

// planBlockRequest is one sequence entry as sent by the client. AddedBy is a
// tagged union at the boundary: clients send either a bare user id string or
// an enriched {userId, userName, imageUrl} object. It is normalized to a
// bare id immediately on ingress, defaulting to the caller when absent.
type planBlockRequest struct {
	PlaceID   string          `json:"placeId"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Image     string          `json:"image"`
	Rating    float64         `json:"rating"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	AddedBy   json.RawMessage `json:"addedBy,omitempty"`
}

// dayPlanRequest is the POST /api/dayplans payload. A non-empty id makes
// the request an update; otherwise it creates. createdBy/updatedBy from the
// client are ignored — the server stamps both.
type dayPlanRequest struct {
	ID         string             `json:"id,omitempty"`
	PlanTitle  string             `json:"planTitle"`
	TripID     string             `json:"tripId"`
	LocationID string             `json:"locationId"`
	Day        *int               `json:"day"`
	Sequence   []planBlockRequest `json:"sequence"`
	IsStarred  bool               `json:"isStarred"`
}

// normalizeAddedBy resolves the addedBy union to a bare user id.
func normalizeAddedBy(raw json.RawMessage, fallback uuid.UUID) (uuid.UUID, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return fallback, nil
	}

	var bare string
	if err := json.Unmarshal(raw, &bare); err == nil {
		return uuid.Parse(bare)
	}

	var enriched struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(raw, &enriched); err != nil || enriched.UserID == "" {
		return uuid.Nil, errors.New("addedBy must be a user id or an object with userId")
	}
	return uuid.Parse(enriched.UserID)
}

// toDayPlan converts the request payload into a domain.DayPlan.
func (b *dayPlanRequest) toDayPlan(caller uuid.UUID) (domain.DayPlan, error) {
	plan := domain.DayPlan{
		Title:      b.PlanTitle,
		LocationID: b.LocationID,
		IsStarred:  b.IsStarred,
	}

	if b.ID != "" {
		id, err := uuid.Parse(b.ID)
		if err != nil {
			return domain.DayPlan{}, errors.New("invalid day plan id format")
		}
		plan.ID = id
	}
	tripID, err := uuid.Parse(b.TripID)
	if err != nil {
		return domain.DayPlan{}, errors.New("invalid trip id format")
	}
	plan.TripID = tripID
	if b.Day != nil {
		plan.Day = *b.Day
	}

	plan.Sequence = make([]domain.PlanBlock, len(b.Sequence))
	for i, block := range b.Sequence {
		addedBy, err := normalizeAddedBy(block.AddedBy, caller)
		if err != nil {
			return domain.DayPlan{}, err
		}
		plan.Sequence[i] = domain.PlanBlock{
			PlaceID:   block.PlaceID,
			Name:      block.Name,
			Type:      block.Type,
			Image:     block.Image,
			Rating:    block.Rating,
			Latitude:  block.Latitude,
			Longitude: block.Longitude,
			AddedBy:   addedBy,
		}
	}

	return plan, nil
}

// handleSaveDayPlan handles POST /api/dayplans behind the member gate
// (tripId sourced from the body). Creates when no id is supplied; updates
// otherwise, which only the plan's creator may do.
func (s *Server) handleSaveDayPlan(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	var body dayPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	plan, err := body.toDayPlan(caller.ID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, created, err := s.dayPlans.Save(r.Context(), plan, caller.ID)
	if err != nil {
		writeDomainError(w, r, err, "day plan not found")
		return
	}

	status := http.StatusOK
	message := "day plan updated successfully"
	if created {
		status = http.StatusCreated
		message = "day plan created successfully"
	}
	respond(w, status, map[string]any{"success": true, "message": message, "dayPlan": saved})
}

// handleListDayPlans handles GET /api/dayplans/trip/{tripId} behind the
// member gate, ordered by day ascending.
func (s *Server) handleListDayPlans(w http.ResponseWriter, r *http.Request) {
	trip, _ := middleware.TripFrom(r.Context())

	plans, err := s.dayPlans.ListByTrip(r.Context(), trip.ID)
	if err != nil {
		writeDomainError(w, r, err, "day plan not found")
		return
	}

	respond(w, http.StatusOK, map[string]any{"success": true, "dayPlans": plans, "count": len(plans)})
}

// handleGetDayPlan handles GET /api/dayplans/{id}.
// Open to any authenticated caller, matching trip read-by-id.
func (s *Server) handleGetDayPlan(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid day plan id format")
		return
	}

	plan, err := s.dayPlans.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, "day plan not found")
		return
	}

	respond(w, http.StatusOK, map[string]any{"success": true, "dayPlan": plan})
}

// handleToggleStar handles PATCH /api/dayplans/{id}/toggle-star.
// Restricted to the parent trip's owner via the shared access policy.
func (s *Server) handleToggleStar(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid day plan id format")
		return
	}

	plan, err := s.dayPlans.ToggleStar(r.Context(), id, caller.ID)
	if err != nil {
		writeDomainError(w, r, err, "day plan not found")
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"success":   true,
		"isStarred": plan.IsStarred,
		"message":   "day plan star status toggled successfully",
	})
}

// handleDeleteDayPlan handles DELETE /api/dayplans/{id}.
// Permitted to the plan's creator or the parent trip's owner.
func (s *Server) handleDeleteDayPlan(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid day plan id format")
		return
	}

	if err := s.dayPlans.Delete(r.Context(), id, caller.ID); err != nil {
		writeDomainError(w, r, err, "day plan not found")
		return
	}

	respond(w, http.StatusOK, map[string]any{"success": true, "message": "day plan deleted successfully"})
}

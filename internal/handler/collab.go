package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nkulkarni/tripmate/internal/middleware"
)

// addCollaboratorsRequest is the POST .../collaborators/add payload.
type addCollaboratorsRequest struct {
	UserIDs []string `json:"userIds"`
}

// replaceCollaboratorsRequest is the PUT .../collaborators payload.
type replaceCollaboratorsRequest struct {
	CollaboratorIDs []string `json:"collaboratorIds"`
}

// handleAddCollaborators handles
// POST /api/collaborations/trips/{tripId}/collaborators/add behind the
// member gate. Candidates that are invalid ids, the owner, already
// collaborators, or unknown users are silently filtered; the response
// reports how many were actually added. Zero additions is a success.
func (s *Server) handleAddCollaborators(w http.ResponseWriter, r *http.Request) {
	trip, _ := middleware.TripFrom(r.Context())

	var body addCollaboratorsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	count, err := s.trips.AddCollaborators(r.Context(), trip, body.UserIDs)
	if err != nil {
		writeDomainError(w, r, err, "trip not found")
		return
	}

	message := fmt.Sprintf("successfully added %d new collaborator(s)", count)
	if count == 0 {
		message = "no new collaborators to add"
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "message": message, "count": count})
}

// handleReplaceCollaborators handles
// PUT /api/collaborations/trips/{tripId}/collaborators behind the owner
// gate: wholesale replacement of the collaborator list.
func (s *Server) handleReplaceCollaborators(w http.ResponseWriter, r *http.Request) {
	trip, _ := middleware.TripFrom(r.Context())

	var body replaceCollaboratorsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.CollaboratorIDs == nil {
		respondError(w, http.StatusBadRequest, "collaboratorIds must be an array")
		return
	}

	updated, err := s.trips.ReplaceCollaborators(r.Context(), trip, body.CollaboratorIDs)
	if err != nil {
		writeDomainError(w, r, err, "trip not found")
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "collaborators updated successfully",
		"trip": map[string]any{
			"id":            updated.ID,
			"collaborators": updated.Collaborators,
		},
	})
}

package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nkulkarni/tripmate/internal/domain"
)

// TripIDSource names where a gated route carries its trip identifier.
type TripIDSource int

const (
	// FromPath reads the "tripId" (or "id") chi URL parameter.
	FromPath TripIDSource = iota
	// FromBody peeks the JSON request body for a "tripId" field, then
	// restores the body for the downstream handler.
	FromBody
	// FromQuery reads the "tripId" query-string parameter.
	FromQuery
)

// maxPeekBytes bounds how much of a request body the gate will buffer while
// looking for the tripId field.
const maxPeekBytes = 1 << 20 // 1 MiB

// authorizer is the access decision the gate delegates to.
// Satisfied by *service.AccessService.
type authorizer interface {
	Authorize(ctx context.Context, tripID, caller uuid.UUID, policy domain.AccessPolicy) (domain.Trip, domain.Role, error)
}

// TripGate is the shared access-control middleware for trip-scoped routes.
// It extracts the trip id from the configured source, resolves the trip,
// classifies the caller, and either short-circuits with a structured error
// or stashes the trip and role in the request context and continues.
//
// The three failure modes use distinct statuses: missing trip id is a client
// input error (400), a missing trip is 404, and an insufficient role is 403.
type TripGate struct {
	access authorizer
}

// NewTripGate constructs a TripGate backed by the provided authorizer.
func NewTripGate(access authorizer) *TripGate {
	return &TripGate{access: access}
}

// RequireOwner admits only the trip owner.
func (g *TripGate) RequireOwner(src TripIDSource) func(http.Handler) http.Handler {
	return g.require(src, domain.OwnerOnly)
}

// RequireMember admits the trip owner or any collaborator.
func (g *TripGate) RequireMember(src TripIDSource) func(http.Handler) http.Handler {
	return g.require(src, domain.OwnerOrCollaborator)
}

func (g *TripGate) require(src TripIDSource, policy domain.AccessPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := UserFrom(r.Context())
			if !ok {
				// Gate wired before the authenticator — a routing bug.
				reject(w, http.StatusUnauthorized, "access denied: no token provided")
				return
			}

			raw, ok := extractTripID(r, src)
			if !ok || raw == "" {
				reject(w, http.StatusBadRequest, "trip id is required")
				return
			}
			tripID, err := uuid.Parse(raw)
			if err != nil {
				reject(w, http.StatusBadRequest, "invalid trip id format")
				return
			}

			trip, role, err := g.access.Authorize(r.Context(), tripID, caller.ID, policy)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrNotFound):
					reject(w, http.StatusNotFound, "trip not found")
				case errors.Is(err, domain.ErrForbidden):
					reject(w, http.StatusForbidden, "access denied: insufficient role for this trip")
				default:
					slog.ErrorContext(r.Context(), "trip gate: authorize", "error", err)
					reject(w, http.StatusInternalServerError, "internal server error")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithTrip(r.Context(), trip, role)))
		})
	}
}

// extractTripID pulls the raw trip id from the configured source.
// The second return is false when the request cannot carry one at all
// (e.g. an unreadable body).
func extractTripID(r *http.Request, src TripIDSource) (string, bool) {
	switch src {
	case FromPath:
		if id := chi.URLParam(r, "tripId"); id != "" {
			return id, true
		}
		return chi.URLParam(r, "id"), true
	case FromQuery:
		return r.URL.Query().Get("tripId"), true
	case FromBody:
		return peekBodyTripID(r)
	default:
		return "", false
	}
}

// peekBodyTripID buffers the request body, decodes only the tripId field,
// and replaces r.Body so the downstream handler can decode the full payload.
func peekBodyTripID(r *http.Request) (string, bool) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBytes))
	if err != nil {
		return "", false
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))

	var probe struct {
		TripID string `json:"tripId"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", false
	}
	return probe.TripID, true
}

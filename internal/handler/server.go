// Package handler implements the HTTP handlers for the TripMate API.
// All handlers are methods on Server; methods are split into domain-specific
// files (user.go, trip.go, collab.go, dayplan.go) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nkulkarni/tripmate/internal/domain"
	"github.com/nkulkarni/tripmate/internal/middleware"
)

// UserServicer defines the account operations the handler depends on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type UserServicer interface {
	SignUp(ctx context.Context, user domain.User, password string) (domain.User, string, error)
	Login(ctx context.Context, email, password string) (domain.User, string, error)
	Search(ctx context.Context, query string, callerID uuid.UUID) ([]domain.User, error)
}

// TripServicer defines the trip operations the handler depends on.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip, owner uuid.UUID) (domain.Trip, error)
	ListMine(ctx context.Context, caller uuid.UUID) ([]domain.TripWithRole, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	Edit(ctx context.Context, current, changes domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id, caller uuid.UUID) error
	AppendLocation(ctx context.Context, trip domain.Trip, loc domain.Location, caller uuid.UUID) (domain.Trip, error)
	ToggleAttraction(ctx context.Context, trip domain.Trip, locationIndex int, a domain.Attraction, caller uuid.UUID) (bool, domain.Trip, error)
	ToggleHotel(ctx context.Context, trip domain.Trip, locationIndex int, h domain.Hotel, caller uuid.UUID) (bool, domain.Trip, error)
	AddCollaborators(ctx context.Context, trip domain.Trip, rawIDs []string) (int, error)
	ReplaceCollaborators(ctx context.Context, trip domain.Trip, rawIDs []string) (domain.Trip, error)
}

// DayPlanServicer defines the day-plan operations the handler depends on.
type DayPlanServicer interface {
	Save(ctx context.Context, plan domain.DayPlan, caller uuid.UUID) (domain.DayPlan, bool, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DayPlan, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.DayPlan, error)
	ToggleStar(ctx context.Context, id, caller uuid.UUID) (domain.DayPlan, error)
	Delete(ctx context.Context, id, caller uuid.UUID) error
}

// Server holds the dependencies shared by every endpoint.
type Server struct {
	users    UserServicer
	trips    TripServicer
	dayPlans DayPlanServicer
	openapi  []byte
}

// NewServer constructs the Server with all its dependencies.
// openapi is the raw spec document served at /openapi.yaml (may be nil).
func NewServer(users UserServicer, trips TripServicer, dayPlans DayPlanServicer, openapi []byte) *Server {
	return &Server{users: users, trips: trips, dayPlans: dayPlans, openapi: openapi}
}

// Routes builds the full route tree. authn authenticates every /api route
// except signup/login; gate enforces per-trip roles on the routes that
// mutate or enumerate trip-scoped data.
func (s *Server) Routes(authn *middleware.Authenticator, gate *middleware.TripGate) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/openapi.yaml", s.handleOpenAPI)

	r.Route("/api", func(r chi.Router) {
		r.Post("/user/signUp", s.handleSignUp)
		r.Post("/user/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(authn.Handler)

			r.Route("/trips", func(r chi.Router) {
				r.Post("/", s.handleCreateTrip)
				r.Get("/", s.handleListTrips)
				r.Get("/{id}", s.handleGetTrip)
				r.With(gate.RequireOwner(middleware.FromPath)).Put("/{id}", s.handleEditTrip)
				r.Delete("/{id}", s.handleDeleteTrip)
				r.With(gate.RequireMember(middleware.FromPath)).Post("/{id}/locations", s.handleAppendLocation)
				r.With(gate.RequireMember(middleware.FromBody)).Patch("/attraction", s.handleToggleAttraction)
				r.With(gate.RequireMember(middleware.FromBody)).Patch("/hotel", s.handleToggleHotel)
			})

			r.Route("/collaborations", func(r chi.Router) {
				r.Get("/search-users", s.handleSearchUsers)
				r.With(gate.RequireMember(middleware.FromPath)).
					Post("/trips/{tripId}/collaborators/add", s.handleAddCollaborators)
				r.With(gate.RequireOwner(middleware.FromPath)).
					Put("/trips/{tripId}/collaborators", s.handleReplaceCollaborators)
			})

			r.Route("/dayplans", func(r chi.Router) {
				r.With(gate.RequireMember(middleware.FromBody)).Post("/", s.handleSaveDayPlan)
				r.With(gate.RequireMember(middleware.FromPath)).Get("/trip/{tripId}", s.handleListDayPlans)
				r.Get("/{id}", s.handleGetDayPlan)
				r.Patch("/{id}/toggle-star", s.handleToggleStar)
				r.Delete("/{id}", s.handleDeleteDayPlan)
			})
		})
	})

	return r
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{"success": true, "status": "ok"})
}

// handleOpenAPI serves the embedded API specification.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.openapi)
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nkulkarni/tripmate/internal/domain"
	"github.com/nkulkarni/tripmate/internal/repo"
)

// Trip shape bounds.
const (
	minLocations     = 2
	minPlaceNameLen  = 3
	maxGuests        = 10
	startLocationDay = 1
)

// TripService implements business logic for Trip operations.
// It holds the user repo as well because collaborator-add must verify that
// candidate ids resolve to existing users.
type TripService struct {
	trips repo.TripRepo
	users repo.UserRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, users repo.UserRepo) *TripService {
	return &TripService{trips: trips, users: users}
}

// Create validates and persists a new trip. The caller becomes the owner and
// the collaborator set starts empty regardless of what the payload carried.
func (s *TripService) Create(ctx context.Context, trip domain.Trip, owner uuid.UUID) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	trip.Owner = owner
	trip.Collaborators = []uuid.UUID{}

	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// ListMine returns the trips the caller owns or collaborates on, newest
// first, each tagged with an isOwner flag. Always returns a non-nil slice.
func (s *TripService) ListMine(ctx context.Context, caller uuid.UUID) ([]domain.TripWithRole, error) {
	trips, err := s.trips.ListForUser(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListMine: %w", err)
	}
	if trips == nil {
		return []domain.TripWithRole{}, nil
	}
	return trips, nil
}

// GetByID returns a single trip by ID. Readable by any authenticated caller;
// trip ids are unguessable and shared as deep links.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// Edit wholesale-replaces startLocation, locations, startDate, and guests on
// an already-authorized trip. Owner, collaborators, and budget are untouched
// by this operation. The caller must hold the owner role (enforced by the
// gate before this runs).
func (s *TripService) Edit(ctx context.Context, current, changes domain.Trip) (domain.Trip, error) {
	if err := validateTrip(changes); err != nil {
		return domain.Trip{}, err
	}

	current.StartLocation = changes.StartLocation
	current.Locations = changes.Locations
	current.StartDate = changes.StartDate
	current.Guests = changes.Guests

	result, err := s.trips.Update(ctx, current)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Edit: %w", err)
	}
	return result, nil
}

// Delete removes the trip only if caller is the recorded owner. A trip owned
// by someone else reads as not-found — callers cannot probe for existence.
func (s *TripService) Delete(ctx context.Context, id, caller uuid.UUID) error {
	if err := s.trips.DeleteOwned(ctx, id, caller); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// AppendLocation appends one new location to the end of the trip's location
// list with empty attraction/hotel lists and the caller stamped as addedBy.
func (s *TripService) AppendLocation(ctx context.Context, trip domain.Trip, loc domain.Location, caller uuid.UUID) (domain.Trip, error) {
	if err := validateLocation(loc); err != nil {
		return domain.Trip{}, err
	}

	loc.Attractions = []domain.Attraction{}
	loc.Hotels = []domain.Hotel{}
	loc.AddedBy = &caller
	trip.Locations = append(trip.Locations, loc)

	result, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.AppendLocation: %w", err)
	}
	return result, nil
}

// ToggleAttraction applies the symmetric saved/unsaved toggle to the
// attraction list of the location at locationIndex (an index into the
// locations array; the start location is not addressable here).
// Returns whether the entry was added and the saved trip.
//
// Not retry-safe: a retried toggle after an unacknowledged success inverts
// the state again.
func (s *TripService) ToggleAttraction(ctx context.Context, trip domain.Trip, locationIndex int, a domain.Attraction, caller uuid.UUID) (bool, domain.Trip, error) {
	if err := validateToggleTarget(trip, locationIndex, a.PlaceID); err != nil {
		return false, domain.Trip{}, err
	}

	a.AddedBy = caller
	added := trip.Locations[locationIndex].ToggleAttraction(a)

	result, err := s.trips.Update(ctx, trip)
	if err != nil {
		return false, domain.Trip{}, fmt.Errorf("service.TripService.ToggleAttraction: %w", err)
	}
	return added, result, nil
}

// ToggleHotel is the hotel-list counterpart of ToggleAttraction.
func (s *TripService) ToggleHotel(ctx context.Context, trip domain.Trip, locationIndex int, h domain.Hotel, caller uuid.UUID) (bool, domain.Trip, error) {
	if err := validateToggleTarget(trip, locationIndex, h.PlaceID); err != nil {
		return false, domain.Trip{}, err
	}

	h.AddedBy = caller
	added := trip.Locations[locationIndex].ToggleHotel(h)

	result, err := s.trips.Update(ctx, trip)
	if err != nil {
		return false, domain.Trip{}, fmt.Errorf("service.TripService.ToggleHotel: %w", err)
	}
	return added, result, nil
}

// AddCollaborators filters the candidate ids down to those that are valid
// identifiers, are not the owner, are not already collaborators, and resolve
// to existing users, then appends the survivors. Returns how many were
// actually added — zero is a success, not an error.
func (s *TripService) AddCollaborators(ctx context.Context, trip domain.Trip, rawIDs []string) (int, error) {
	if len(rawIDs) == 0 {
		return 0, fmt.Errorf("%w: user ids array cannot be empty", domain.ErrValidation)
	}

	seen := make(map[uuid.UUID]bool, len(rawIDs))
	var candidates []uuid.UUID
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil || id == uuid.Nil {
			continue
		}
		if id == trip.Owner || trip.IsCollaborator(id) || seen[id] {
			continue
		}
		seen[id] = true
		candidates = append(candidates, id)
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	existing, err := s.users.FilterExisting(ctx, candidates)
	if err != nil {
		return 0, fmt.Errorf("service.TripService.AddCollaborators: %w", err)
	}
	if len(existing) == 0 {
		return 0, nil
	}

	trip.Collaborators = append(trip.Collaborators, existing...)
	if _, err := s.trips.Update(ctx, trip); err != nil {
		return 0, fmt.Errorf("service.TripService.AddCollaborators: %w", err)
	}
	return len(existing), nil
}

// ReplaceCollaborators wholesale-replaces the collaborator list. Any
// syntactically invalid id rejects the whole request; the surviving list is
// deduplicated and the owner filtered out so the set invariant holds.
// Candidate ids are NOT checked against the users table on this path — the
// owner's replace is deliberately looser than the filtered batch add.
func (s *TripService) ReplaceCollaborators(ctx context.Context, trip domain.Trip, rawIDs []string) (domain.Trip, error) {
	ids := make([]uuid.UUID, 0, len(rawIDs))
	seen := make(map[uuid.UUID]bool, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil || id == uuid.Nil {
			return domain.Trip{}, fmt.Errorf("%w: all collaborator ids must be valid user ids", domain.ErrValidation)
		}
		if id == trip.Owner || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	trip.Collaborators = ids
	result, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.ReplaceCollaborators: %w", err)
	}
	return result, nil
}

// validateTrip enforces the trip shape rules shared by Create and Edit.
// Reports the first violated rule only.
func validateTrip(trip domain.Trip) error {
	if trip.StartLocation.PlaceID == "" {
		return fmt.Errorf("%w: startLocation.placeId is required", domain.ErrValidation)
	}
	if len(strings.TrimSpace(trip.StartLocation.PlaceName)) < minPlaceNameLen {
		return fmt.Errorf("%w: startLocation.placeName must be at least 3 characters", domain.ErrValidation)
	}
	if trip.StartLocation.Day != startLocationDay {
		return fmt.Errorf("%w: startLocation.day must be 1", domain.ErrValidation)
	}
	if len(trip.Locations) < minLocations {
		return fmt.Errorf("%w: at least two locations are required", domain.ErrValidation)
	}
	for i, loc := range trip.Locations {
		if err := validateLocation(loc); err != nil {
			return fmt.Errorf("%w: locations[%d]: %s", domain.ErrValidation, i,
				strings.TrimPrefix(err.Error(), "validation error: "))
		}
	}
	if trip.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", domain.ErrValidation)
	}
	if trip.Guests < 0 || trip.Guests > maxGuests {
		return fmt.Errorf("%w: guests must be between 0 and 10", domain.ErrValidation)
	}
	return nil
}

// validateLocation enforces the per-location rules.
func validateLocation(loc domain.Location) error {
	if loc.PlaceID == "" {
		return fmt.Errorf("%w: placeId is required", domain.ErrValidation)
	}
	if len(strings.TrimSpace(loc.PlaceName)) < minPlaceNameLen {
		return fmt.Errorf("%w: placeName must be at least 3 characters", domain.ErrValidation)
	}
	if loc.Day < 1 {
		return fmt.Errorf("%w: day must be at least 1", domain.ErrValidation)
	}
	return nil
}

// validateToggleTarget checks the shared preconditions of both toggles.
func validateToggleTarget(trip domain.Trip, locationIndex int, placeID string) error {
	if placeID == "" {
		return fmt.Errorf("%w: placeId is required", domain.ErrValidation)
	}
	if locationIndex < 0 || locationIndex >= len(trip.Locations) {
		return fmt.Errorf("%w: invalid location index", domain.ErrValidation)
	}
	return nil
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nkulkarni/tripmate/internal/domain"
	"github.com/nkulkarni/tripmate/internal/repo"
)

// AccessService is the single authorization entry point for every
// trip-scoped operation. It resolves the target trip once, classifies the
// caller into owner / collaborator / none, and applies a
// domain.AccessPolicy predicate. Both the HTTP gate middleware and the
// day-plan service route their checks through here, so no call site
// re-implements role derivation.
type AccessService struct {
	trips repo.TripRepo
}

// NewAccessService constructs an AccessService backed by the provided TripRepo.
func NewAccessService(trips repo.TripRepo) *AccessService {
	return &AccessService{trips: trips}
}

// Authorize loads tripID, derives caller's role, and applies policy with
// isCreator=false. Intended for trip-level operations where day-plan
// creatorship is irrelevant.
//
// Returns the resolved trip and role on success so callers never need a
// second lookup. Error mapping: missing trip → domain.ErrNotFound,
// policy rejection → domain.ErrForbidden, anything else → the lookup error.
func (s *AccessService) Authorize(ctx context.Context, tripID, caller uuid.UUID, policy domain.AccessPolicy) (domain.Trip, domain.Role, error) {
	return s.authorize(ctx, tripID, caller, policy, false)
}

// AuthorizePlan applies policy to an operation on a specific day plan,
// feeding the predicate both the caller's trip role and whether the caller
// created the plan. This is how CreatorOnly and CreatorOrOwner policies get
// their creator bit.
func (s *AccessService) AuthorizePlan(ctx context.Context, plan domain.DayPlan, caller uuid.UUID, policy domain.AccessPolicy) (domain.Trip, domain.Role, error) {
	return s.authorize(ctx, plan.TripID, caller, policy, plan.CreatedBy == caller)
}

func (s *AccessService) authorize(ctx context.Context, tripID, caller uuid.UUID, policy domain.AccessPolicy, isCreator bool) (domain.Trip, domain.Role, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, domain.RoleNone, fmt.Errorf("service.AccessService.Authorize: %w", err)
	}

	role := trip.RoleOf(caller)
	if !policy(role, isCreator) {
		return domain.Trip{}, role, fmt.Errorf("service.AccessService.Authorize: %w", domain.ErrForbidden)
	}

	return trip, role, nil
}

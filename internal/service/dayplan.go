package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nkulkarni/tripmate/internal/domain"
	"github.com/nkulkarni/tripmate/internal/repo"
)

// DayPlanService implements business logic for DayPlan operations.
// Day plans have no permission state of their own: every check routes
// through the AccessService against the parent trip, combined with the
// plan's creator reference.
type DayPlanService struct {
	plans  repo.DayPlanRepo
	access *AccessService
}

// NewDayPlanService constructs a DayPlanService backed by the provided repo
// and access service.
func NewDayPlanService(plans repo.DayPlanRepo, access *AccessService) *DayPlanService {
	return &DayPlanService{plans: plans, access: access}
}

// Save multiplexes on the presence of plan.ID: absent (uuid.Nil) creates a
// new plan with the caller stamped as creator; present updates the existing
// plan, which only the original creator may do — a narrower check than the
// member gate that let the request through. Returns the persisted plan and
// whether it was created.
func (s *DayPlanService) Save(ctx context.Context, plan domain.DayPlan, caller uuid.UUID) (domain.DayPlan, bool, error) {
	if err := validateDayPlan(plan); err != nil {
		return domain.DayPlan{}, false, err
	}

	if plan.ID == uuid.Nil {
		plan.CreatedBy = caller
		created, err := s.plans.Create(ctx, plan)
		if err != nil {
			return domain.DayPlan{}, false, fmt.Errorf("service.DayPlanService.Save: %w", err)
		}
		return created, true, nil
	}

	existing, err := s.plans.GetByID(ctx, plan.ID)
	if err != nil {
		return domain.DayPlan{}, false, fmt.Errorf("service.DayPlanService.Save: %w", err)
	}
	if _, _, err := s.access.AuthorizePlan(ctx, existing, caller, domain.CreatorOnly); err != nil {
		return domain.DayPlan{}, false, fmt.Errorf("service.DayPlanService.Save: %w", err)
	}

	existing.Title = plan.Title
	existing.LocationID = plan.LocationID
	existing.Day = plan.Day
	existing.Sequence = plan.Sequence
	existing.IsStarred = plan.IsStarred
	existing.UpdatedBy = &caller

	updated, err := s.plans.Update(ctx, existing)
	if err != nil {
		return domain.DayPlan{}, false, fmt.Errorf("service.DayPlanService.Save: %w", err)
	}
	return updated, false, nil
}

// ListByTrip returns all day plans for a trip ordered by day ascending.
// The member gate runs before this. Always returns a non-nil slice.
func (s *DayPlanService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DayPlan, error) {
	plans, err := s.plans.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.DayPlanService.ListByTrip: %w", err)
	}
	if plans == nil {
		return []domain.DayPlan{}, nil
	}
	return plans, nil
}

// GetByID returns a single day plan by ID. Readable by any authenticated
// caller, matching trip read-by-id.
func (s *DayPlanService) GetByID(ctx context.Context, id uuid.UUID) (domain.DayPlan, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return domain.DayPlan{}, fmt.Errorf("service.DayPlanService.GetByID: %w", err)
	}
	return plan, nil
}

// ToggleStar flips the starred flag. Restricted to the parent trip's owner.
func (s *DayPlanService) ToggleStar(ctx context.Context, id, caller uuid.UUID) (domain.DayPlan, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return domain.DayPlan{}, fmt.Errorf("service.DayPlanService.ToggleStar: %w", err)
	}
	if _, _, err := s.access.AuthorizePlan(ctx, plan, caller, domain.OwnerOnly); err != nil {
		return domain.DayPlan{}, fmt.Errorf("service.DayPlanService.ToggleStar: %w", err)
	}

	plan.IsStarred = !plan.IsStarred
	plan.UpdatedBy = &caller

	updated, err := s.plans.Update(ctx, plan)
	if err != nil {
		return domain.DayPlan{}, fmt.Errorf("service.DayPlanService.ToggleStar: %w", err)
	}
	return updated, nil
}

// Delete removes a day plan. Permitted to the plan's creator or the parent
// trip's owner — the one two-way OR check in the system.
func (s *DayPlanService) Delete(ctx context.Context, id, caller uuid.UUID) error {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.DayPlanService.Delete: %w", err)
	}
	if _, _, err := s.access.AuthorizePlan(ctx, plan, caller, domain.CreatorOrOwner); err != nil {
		return fmt.Errorf("service.DayPlanService.Delete: %w", err)
	}

	if err := s.plans.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.DayPlanService.Delete: %w", err)
	}
	return nil
}

// validateDayPlan enforces the plan shape rules shared by create and update.
// Reports the first violated rule only.
func validateDayPlan(plan domain.DayPlan) error {
	if strings.TrimSpace(plan.Title) == "" {
		return fmt.Errorf("%w: planTitle is required", domain.ErrValidation)
	}
	if plan.TripID == uuid.Nil {
		return fmt.Errorf("%w: tripId is required", domain.ErrValidation)
	}
	if strings.TrimSpace(plan.LocationID) == "" {
		return fmt.Errorf("%w: locationId is required", domain.ErrValidation)
	}
	if plan.Day < 1 {
		return fmt.Errorf("%w: day must be at least 1", domain.ErrValidation)
	}
	for i, block := range plan.Sequence {
		if block.PlaceID == "" {
			return fmt.Errorf("%w: sequence[%d].placeId is required", domain.ErrValidation, i)
		}
		if strings.TrimSpace(block.Name) == "" {
			return fmt.Errorf("%w: sequence[%d].name is required", domain.ErrValidation, i)
		}
		if block.Type != domain.BlockTypeAttraction && block.Type != domain.BlockTypeHotel {
			return fmt.Errorf("%w: sequence[%d].type must be attraction or hotel", domain.ErrValidation, i)
		}
	}
	return nil
}

package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkulkarni/tripmate/internal/domain"
)

func dayPlanPayload(tripID uuid.UUID) map[string]any {
	return map[string]any{
		"planTitle":  "Day 2 in Monterey",
		"tripId":     tripID.String(),
		"locationId": "p-1",
		"day":        2,
		"sequence": []map[string]any{
			{"placeId": "a-1", "name": "Aquarium", "type": "attraction"},
		},
	}
}

// ---- POST /api/dayplans ----------------------------------------------------

func TestSaveDayPlan_201_Create(t *testing.T) {
	plans := &mockDayPlanServicer{
		save: func(_ context.Context, plan domain.DayPlan, caller uuid.UUID) (domain.DayPlan, bool, error) {
			assert.Equal(t, uuid.Nil, plan.ID)
			assert.Equal(t, "Day 2 in Monterey", plan.Title)
			plan.ID = uuid.New()
			plan.CreatedBy = caller
			return plan, true, nil
		},
	}
	w := newWorld(nil, nil, plans)

	rec := w.do(t, http.MethodPost, "/api/dayplans", dayPlanPayload(w.trip.ID), w.collaborator)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "day plan created successfully", body["message"])
	assert.NotNil(t, body["dayPlan"])
}

func TestSaveDayPlan_200_Update(t *testing.T) {
	planID := uuid.New()
	plans := &mockDayPlanServicer{
		save: func(_ context.Context, plan domain.DayPlan, _ uuid.UUID) (domain.DayPlan, bool, error) {
			assert.Equal(t, planID, plan.ID)
			return plan, false, nil
		},
	}
	w := newWorld(nil, nil, plans)

	payload := dayPlanPayload(w.trip.ID)
	payload["id"] = planID.String()
	rec := w.do(t, http.MethodPost, "/api/dayplans", payload, w.collaborator)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "day plan updated successfully", decodeBody(t, rec)["message"])
}

func TestSaveDayPlan_403_NonCreatorUpdate(t *testing.T) {
	plans := &mockDayPlanServicer{
		save: func(_ context.Context, _ domain.DayPlan, _ uuid.UUID) (domain.DayPlan, bool, error) {
			return domain.DayPlan{}, false, fmt.Errorf("save: %w", domain.ErrForbidden)
		},
	}
	w := newWorld(nil, nil, plans)

	payload := dayPlanPayload(w.trip.ID)
	payload["id"] = uuid.New().String()
	rec := w.do(t, http.MethodPost, "/api/dayplans", payload, w.owner)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSaveDayPlan_403_StrangerBlockedAtGate(t *testing.T) {
	w := newWorld(nil, nil, &mockDayPlanServicer{})

	rec := w.do(t, http.MethodPost, "/api/dayplans", dayPlanPayload(w.trip.ID), w.stranger)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSaveDayPlan_201_EnrichedAddedByObject(t *testing.T) {
	author := uuid.New()
	plans := &mockDayPlanServicer{
		save: func(_ context.Context, plan domain.DayPlan, _ uuid.UUID) (domain.DayPlan, bool, error) {
			// The enriched object collapses to its userId on ingress.
			require.Len(t, plan.Sequence, 1)
			assert.Equal(t, author, plan.Sequence[0].AddedBy)
			return plan, true, nil
		},
	}
	w := newWorld(nil, nil, plans)

	payload := dayPlanPayload(w.trip.ID)
	payload["sequence"] = []map[string]any{
		{
			"placeId": "a-1", "name": "Aquarium", "type": "attraction",
			"addedBy": map[string]any{"userId": author.String(), "userName": "Asha"},
		},
	}
	rec := w.do(t, http.MethodPost, "/api/dayplans", payload, w.collaborator)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

// ---- GET /api/dayplans/trip/{tripId} ---------------------------------------

func TestListDayPlans_200_Member(t *testing.T) {
	plans := &mockDayPlanServicer{
		listByTrip: func(_ context.Context, tripID uuid.UUID) ([]domain.DayPlan, error) {
			return []domain.DayPlan{{ID: uuid.New(), TripID: tripID, Day: 1}}, nil
		},
	}
	w := newWorld(nil, nil, plans)

	rec := w.do(t, http.MethodGet, "/api/dayplans/trip/"+w.trip.ID.String(), nil, w.collaborator)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeBody(t, rec)["count"])
}

func TestListDayPlans_403_Stranger(t *testing.T) {
	w := newWorld(nil, nil, &mockDayPlanServicer{})

	rec := w.do(t, http.MethodGet, "/api/dayplans/trip/"+w.trip.ID.String(), nil, w.stranger)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// ---- PATCH /api/dayplans/{id}/toggle-star ----------------------------------

func TestToggleStar_200_Owner(t *testing.T) {
	planID := uuid.New()
	plans := &mockDayPlanServicer{
		toggleStar: func(_ context.Context, id, caller uuid.UUID) (domain.DayPlan, error) {
			assert.Equal(t, planID, id)
			return domain.DayPlan{ID: id, IsStarred: true}, nil
		},
	}
	w := newWorld(nil, nil, plans)

	rec := w.do(t, http.MethodPatch, "/api/dayplans/"+planID.String()+"/toggle-star", nil, w.owner)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["isStarred"])
}

func TestToggleStar_403_NotOwner(t *testing.T) {
	plans := &mockDayPlanServicer{
		toggleStar: func(_ context.Context, _, _ uuid.UUID) (domain.DayPlan, error) {
			return domain.DayPlan{}, fmt.Errorf("toggle star: %w", domain.ErrForbidden)
		},
	}
	w := newWorld(nil, nil, plans)

	rec := w.do(t, http.MethodPatch, "/api/dayplans/"+uuid.New().String()+"/toggle-star", nil, w.collaborator)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// ---- DELETE /api/dayplans/{id} ---------------------------------------------

func TestDeleteDayPlan_200(t *testing.T) {
	planID := uuid.New()
	plans := &mockDayPlanServicer{
		delete: func(_ context.Context, id, _ uuid.UUID) error {
			assert.Equal(t, planID, id)
			return nil
		},
	}
	w := newWorld(nil, nil, plans)

	rec := w.do(t, http.MethodDelete, "/api/dayplans/"+planID.String(), nil, w.owner)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "day plan deleted successfully", decodeBody(t, rec)["message"])
}

func TestDeleteDayPlan_403_Bystander(t *testing.T) {
	plans := &mockDayPlanServicer{
		delete: func(_ context.Context, _, _ uuid.UUID) error {
			return fmt.Errorf("delete: %w", domain.ErrForbidden)
		},
	}
	w := newWorld(nil, nil, plans)

	rec := w.do(t, http.MethodDelete, "/api/dayplans/"+uuid.New().String(), nil, w.collaborator)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetDayPlan_404(t *testing.T) {
	plans := &mockDayPlanServicer{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.DayPlan, error) {
			return domain.DayPlan{}, domain.ErrNotFound
		},
	}
	w := newWorld(nil, nil, plans)

	rec := w.do(t, http.MethodGet, "/api/dayplans/"+uuid.New().String(), nil, w.owner)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "day plan not found", decodeBody(t, rec)["message"])
}

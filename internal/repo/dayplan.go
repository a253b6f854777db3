package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nkulkarni/tripmate/internal/domain"
)

// DayPlanRepo defines the persistence operations for DayPlans.
type DayPlanRepo interface {
	// Create inserts a new day plan and returns the persisted record.
	Create(ctx context.Context, plan domain.DayPlan) (domain.DayPlan, error)

	// GetByID retrieves a single day plan by primary key.
	// Returns domain.ErrNotFound if no day plan with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.DayPlan, error)

	// ListByTrip returns all day plans for a trip ordered by day ascending.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DayPlan, error)

	// Update overwrites the mutable fields if plan.Revision still matches
	// the stored row, then bumps the revision. Returns domain.ErrConflict
	// on a lost race, domain.ErrNotFound when the plan no longer exists.
	Update(ctx context.Context, plan domain.DayPlan) (domain.DayPlan, error)

	// Delete removes a day plan by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgDayPlanRepo is the Postgres implementation of DayPlanRepo.
type pgDayPlanRepo struct {
	db db
}

// NewDayPlanRepo constructs a DayPlanRepo backed by the provided db connection.
func NewDayPlanRepo(db db) DayPlanRepo {
	return &pgDayPlanRepo{db: db}
}

const dayPlanColumns = `id, title, trip_id, location_id, day, sequence,
	is_starred, created_by, updated_by, revision, created_at, updated_at`

// Create inserts a new day plan row and returns the full persisted record.
func (r *pgDayPlanRepo) Create(ctx context.Context, plan domain.DayPlan) (domain.DayPlan, error) {
	const q = `
		INSERT INTO day_plans (title, trip_id, location_id, day, sequence, is_starred, created_by)
		VALUES (@title, @trip_id, @location_id, @day, @sequence, @is_starred, @created_by)
		RETURNING ` + dayPlanColumns

	args := pgx.NamedArgs{
		"title":       plan.Title,
		"trip_id":     plan.TripID,
		"location_id": plan.LocationID,
		"day":         plan.Day,
		"sequence":    sequenceArg(plan.Sequence),
		"is_starred":  plan.IsStarred,
		"created_by":  plan.CreatedBy,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanDayPlan(row)
	if err != nil {
		return domain.DayPlan{}, fmt.Errorf("repo.DayPlanRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a day plan by primary key.
func (r *pgDayPlanRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.DayPlan, error) {
	const q = `SELECT ` + dayPlanColumns + ` FROM day_plans WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanDayPlan(row)
	if err != nil {
		return domain.DayPlan{}, fmt.Errorf("repo.DayPlanRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByTrip returns all day plans for a trip ordered by day ascending.
func (r *pgDayPlanRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DayPlan, error) {
	const q = `
		SELECT ` + dayPlanColumns + `
		FROM day_plans
		WHERE trip_id = @trip_id
		ORDER BY day ASC, created_at ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DayPlanRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	var plans []domain.DayPlan
	for rows.Next() {
		p, err := scanDayPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DayPlanRepo.ListByTrip: scan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DayPlanRepo.ListByTrip: rows: %w", err)
	}

	return plans, nil
}

// Update performs a compare-and-swap on the revision column. CreatedBy and
// TripID are immutable and absent from the SET clause.
func (r *pgDayPlanRepo) Update(ctx context.Context, plan domain.DayPlan) (domain.DayPlan, error) {
	const q = `
		UPDATE day_plans
		SET title       = @title,
		    location_id = @location_id,
		    day         = @day,
		    sequence    = @sequence,
		    is_starred  = @is_starred,
		    updated_by  = @updated_by,
		    revision    = revision + 1,
		    updated_at  = now()
		WHERE id = @id AND revision = @revision
		RETURNING ` + dayPlanColumns

	args := pgx.NamedArgs{
		"id":          plan.ID,
		"title":       plan.Title,
		"location_id": plan.LocationID,
		"day":         plan.Day,
		"sequence":    sequenceArg(plan.Sequence),
		"is_starred":  plan.IsStarred,
		"updated_by":  plan.UpdatedBy, // nil becomes NULL
		"revision":    plan.Revision,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanDayPlan(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.DayPlan{}, fmt.Errorf("repo.DayPlanRepo.Update: %w", r.classifyMiss(ctx, plan.ID))
		}
		return domain.DayPlan{}, fmt.Errorf("repo.DayPlanRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a day plan by primary key.
func (r *pgDayPlanRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM day_plans WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.DayPlanRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DayPlanRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// classifyMiss turns a zero-row CAS update into ErrConflict when the row
// still exists and ErrNotFound when it does not.
func (r *pgDayPlanRepo) classifyMiss(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM day_plans WHERE id = @id)`,
		pgx.NamedArgs{"id": id}).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrConflict
	}
	return domain.ErrNotFound
}

// sequenceArg ensures a nil sequence is stored as an empty JSON array
// rather than NULL.
func sequenceArg(blocks []domain.PlanBlock) []domain.PlanBlock {
	if blocks == nil {
		return []domain.PlanBlock{}
	}
	return blocks
}

// scanDayPlan maps a single database row into a domain.DayPlan.
func scanDayPlan(s scanner) (domain.DayPlan, error) {
	var (
		p         domain.DayPlan
		id        pgtype.UUID
		tripID    pgtype.UUID
		createdBy pgtype.UUID
		updatedBy pgtype.UUID
	)

	err := s.Scan(&id, &p.Title, &tripID, &p.LocationID, &p.Day, &p.Sequence,
		&p.IsStarred, &createdBy, &updatedBy, &p.Revision, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DayPlan{}, domain.ErrNotFound
		}
		return domain.DayPlan{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.TripID = uuid.UUID(tripID.Bytes)
	p.CreatedBy = uuid.UUID(createdBy.Bytes)
	if updatedBy.Valid {
		ub := uuid.UUID(updatedBy.Bytes)
		p.UpdatedBy = &ub
	}
	if p.Sequence == nil {
		p.Sequence = []domain.PlanBlock{}
	}

	return p, nil
}

// Package repo contains all database access logic for the TripMate API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
//
// Trips are stored document-style: the nested location/attraction/hotel
// lists live in JSONB columns and the collaborator set in a uuid[] column,
// so every mutation is a single-row read-modify-write with the row's
// revision column as the optimistic-concurrency token.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nkulkarni/tripmate/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, revision, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListForUser returns the union of trips owned by userID and trips
	// where userID is a collaborator, newest first, each tagged with the
	// caller's ownership flag. The owner-not-a-collaborator invariant
	// makes the union naturally duplicate-free.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.TripWithRole, error)

	// Update overwrites the mutable fields of an existing trip if and only
	// if trip.Revision still matches the stored row, then bumps the
	// revision. Returns domain.ErrConflict when a concurrent writer won the
	// race, domain.ErrNotFound when the trip no longer exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// DeleteOwned removes the trip only if ownerID is the recorded owner.
	// A trip that exists but belongs to someone else reads as
	// domain.ErrNotFound — callers cannot distinguish "not mine" from
	// "doesn't exist", an intentional information-hiding property.
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, owner_id, collaborators, start_location, locations,
	start_date, guests, budget, revision, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (owner_id, collaborators, start_location, locations, start_date, guests, budget)
		VALUES (@owner_id, @collaborators, @start_location, @locations, @start_date, @guests, @budget)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"owner_id":       trip.Owner,
		"collaborators":  collaboratorsArg(trip.Collaborators),
		"start_location": trip.StartLocation,
		"locations":      trip.Locations,
		"start_date":     trip.StartDate,
		"guests":         trip.Guests,
		"budget":         trip.Budget,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListForUser returns trips the user owns or collaborates on, newest first.
func (r *pgTripRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.TripWithRole, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_id = @user_id OR @user_id = ANY(collaborators)
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListForUser: %w", err)
	}
	defer rows.Close()

	var trips []domain.TripWithRole
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListForUser: scan: %w", err)
		}
		trips = append(trips, domain.TripWithRole{Trip: t, IsOwner: t.Owner == userID})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListForUser: rows: %w", err)
	}

	return trips, nil
}

// Update performs a compare-and-swap on the revision column. The owner
// reference is immutable and deliberately absent from the SET clause.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET collaborators  = @collaborators,
		    start_location = @start_location,
		    locations      = @locations,
		    start_date     = @start_date,
		    guests         = @guests,
		    budget         = @budget,
		    revision       = revision + 1,
		    updated_at     = now()
		WHERE id = @id AND revision = @revision
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":             trip.ID,
		"collaborators":  collaboratorsArg(trip.Collaborators),
		"start_location": trip.StartLocation,
		"locations":      trip.Locations,
		"start_date":     trip.StartDate,
		"guests":         trip.Guests,
		"budget":         trip.Budget,
		"revision":       trip.Revision,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Zero rows means either the trip is gone or the revision is
			// stale. A second lookup disambiguates.
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", r.classifyMiss(ctx, trip.ID))
		}
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// DeleteOwned removes a trip scoped to its owner.
func (r *pgTripRepo) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id AND owner_id = @owner_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.DeleteOwned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.DeleteOwned: %w", domain.ErrNotFound)
	}
	return nil
}

// classifyMiss turns a zero-row CAS update into ErrConflict when the row
// still exists and ErrNotFound when it does not.
func (r *pgTripRepo) classifyMiss(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM trips WHERE id = @id)`,
		pgx.NamedArgs{"id": id}).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrConflict
	}
	return domain.ErrNotFound
}

// collaboratorsArg ensures a nil collaborator slice is stored as an empty
// uuid[] rather than NULL.
func collaboratorsArg(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// The JSONB columns unmarshal straight into the nested domain structs.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t     domain.Trip
		id    pgtype.UUID
		owner pgtype.UUID
	)

	err := s.Scan(&id, &owner, &t.Collaborators, &t.StartLocation, &t.Locations,
		&t.StartDate, &t.Guests, &t.Budget, &t.Revision, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.Owner = uuid.UUID(owner.Bytes)
	if t.Collaborators == nil {
		t.Collaborators = []uuid.UUID{}
	}

	return t, nil
}

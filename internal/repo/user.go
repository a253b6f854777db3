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

// ErrDuplicateEmail is returned by Create when the email is already taken.
// It is a repo-level error (not domain) because only the unique index can
// detect it; the service maps it to domain.ErrValidation.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepo defines the persistence operations for Users.
type UserRepo interface {
	// Create inserts a new user and returns the persisted record.
	// Returns ErrDuplicateEmail if the email is already registered.
	Create(ctx context.Context, user domain.User) (domain.User, error)

	// GetByID retrieves a single user by primary key.
	// Returns domain.ErrNotFound if no user with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	// GetByEmail retrieves a single user by their unique email.
	// Returns domain.ErrNotFound if no user with that email exists.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// SearchByName returns users whose name contains query
	// (case-insensitive), excluding excludeID, capped at limit.
	SearchByName(ctx context.Context, query string, excludeID uuid.UUID, limit int) ([]domain.User, error)

	// FilterExisting returns the subset of ids that identify existing
	// users, in no particular order.
	FilterExisting(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

// pgUserRepo is the Postgres implementation of UserRepo.
type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

const userColumns = `id, name, email, password_hash, image_url, phone,
	emergency_contacts, created_at, updated_at`

// Create inserts a new user row and returns the full persisted record.
func (r *pgUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (name, email, password_hash, image_url, phone, emergency_contacts)
		VALUES (@name, @email, @password_hash, @image_url, @phone, @emergency_contacts)
		RETURNING ` + userColumns

	args := pgx.NamedArgs{
		"name":               user.Name,
		"email":              user.Email,
		"password_hash":      user.PasswordHash,
		"image_url":          user.ImageURL,
		"phone":              user.Phone,
		"emergency_contacts": stringsArg(user.EmergencyContacts),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation; the only unique constraint is the email index.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", ErrDuplicateEmail)
		}
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a user by primary key.
func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetByEmail retrieves a user by their unique email.
func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = @email`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email})
	result, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", err)
	}
	return result, nil
}

// SearchByName performs a case-insensitive substring match on name.
// The query string is escaped so user input cannot inject LIKE wildcards.
func (r *pgUserRepo) SearchByName(ctx context.Context, query string, excludeID uuid.UUID, limit int) ([]domain.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE name ILIKE '%' || @query || '%' AND id <> @exclude_id
		ORDER BY name ASC
		LIMIT @limit`

	args := pgx.NamedArgs{
		"query":      escapeLike(query),
		"exclude_id": excludeID,
		"limit":      limit,
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.UserRepo.SearchByName: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.UserRepo.SearchByName: scan: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.UserRepo.SearchByName: rows: %w", err)
	}

	return users, nil
}

// FilterExisting returns which of the given ids exist in the users table.
func (r *pgUserRepo) FilterExisting(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	const q = `SELECT id FROM users WHERE id = ANY(@ids)`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("repo.UserRepo.FilterExisting: %w", err)
	}
	defer rows.Close()

	var existing []uuid.UUID
	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("repo.UserRepo.FilterExisting: scan: %w", err)
		}
		existing = append(existing, uuid.UUID(id.Bytes))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.UserRepo.FilterExisting: rows: %w", err)
	}

	return existing, nil
}

// stringsArg ensures a nil string slice is stored as an empty text[]
// rather than NULL.
func stringsArg(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

// escapeLike escapes the LIKE metacharacters so search input matches literally.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// scanUser maps a single database row into a domain.User.
func scanUser(s scanner) (domain.User, error) {
	var (
		u  domain.User
		id pgtype.UUID
	)

	err := s.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &u.ImageURL, &u.Phone,
		&u.EmergencyContacts, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}

	u.ID = uuid.UUID(id.Bytes)
	return u, nil
}

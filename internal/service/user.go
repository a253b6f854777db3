package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/nkulkarni/tripmate/internal/domain"
	"github.com/nkulkarni/tripmate/internal/repo"
)

// searchLimit caps collaborator-picker results to prevent abuse.
const searchLimit = 20

// UserService implements account and user-lookup business logic.
type UserService struct {
	users repo.UserRepo
	auth  *AuthService
}

// NewUserService constructs a UserService backed by the provided repo and
// auth service.
func NewUserService(users repo.UserRepo, auth *AuthService) *UserService {
	return &UserService{users: users, auth: auth}
}

// SignUp validates and registers a new account, returning the persisted user
// and a fresh identity token. The plaintext password is hashed before it
// touches the repo layer.
func (s *UserService) SignUp(ctx context.Context, user domain.User, password string) (domain.User, string, error) {
	if err := validateNewUser(user, password); err != nil {
		return domain.User{}, "", err
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.UserService.SignUp: %w", err)
	}
	user.PasswordHash = hash
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return domain.User{}, "", fmt.Errorf("service.UserService.SignUp: %w: email already registered", domain.ErrValidation)
		}
		return domain.User{}, "", fmt.Errorf("service.UserService.SignUp: %w", err)
	}

	token, err := s.auth.GenerateToken(created.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.UserService.SignUp: %w", err)
	}
	return created, token, nil
}

// Login verifies credentials and returns the user plus a fresh identity
// token. Unknown email and wrong password both map to domain.ErrUnauthorized
// so responses never reveal which one failed.
func (s *UserService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", fmt.Errorf("service.UserService.Login: %w", domain.ErrUnauthorized)
		}
		return domain.User{}, "", fmt.Errorf("service.UserService.Login: %w", err)
	}

	if err := s.auth.CheckPassword(user.PasswordHash, password); err != nil {
		return domain.User{}, "", fmt.Errorf("service.UserService.Login: %w", domain.ErrUnauthorized)
	}

	token, err := s.auth.GenerateToken(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.UserService.Login: %w", err)
	}
	return user, token, nil
}

// GetByID returns a single user by ID.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.GetByID: %w", err)
	}
	return user, nil
}

// Search returns up to 20 users whose display name contains query
// (case-insensitive), always excluding the caller so users cannot add
// themselves as collaborators. Always returns a non-nil slice.
func (s *UserService) Search(ctx context.Context, query string, callerID uuid.UUID) ([]domain.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query must be at least 1 character long", domain.ErrValidation)
	}

	users, err := s.users.SearchByName(ctx, query, callerID, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("service.UserService.Search: %w", err)
	}
	if users == nil {
		return []domain.User{}, nil
	}
	return users, nil
}

// validateNewUser enforces signup business rules.
// Reports the first violated rule only.
func validateNewUser(user domain.User, password string) error {
	if strings.TrimSpace(user.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if len(user.Name) > 50 {
		return fmt.Errorf("%w: name must be at most 50 characters", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(user.Email)); err != nil {
		return fmt.Errorf("%w: a valid email address is required", domain.ErrValidation)
	}
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes.
		return fmt.Errorf("%w: password must be at most 72 characters", domain.ErrValidation)
	}
	return nil
}

package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkulkarni/tripmate/internal/domain"
	"github.com/nkulkarni/tripmate/internal/repo"
)

func newUserRepo(t *testing.T) repo.UserRepo {
	t.Helper()
	return repo.NewUserRepo(testTx(t))
}

func TestUserRepo_Create(t *testing.T) {
	users := newUserRepo(t)
	ctx := context.Background()

	got, err := users.Create(ctx, domain.User{
		Name:              "Asha Rao",
		Email:             "asha@example.com",
		PasswordHash:      "$2a$12$fixture-hash",
		Phone:             "+1-555-0100",
		EmergencyContacts: []string{"+1-555-0101"},
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "asha@example.com", got.Email)
	assert.Equal(t, []string{"+1-555-0101"}, got.EmergencyContacts)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	users := newUserRepo(t)
	ctx := context.Background()

	mustCreateUser(t, users, "First", "taken@example.com")

	_, err := users.Create(ctx, domain.User{
		Name:         "Second",
		Email:        "taken@example.com",
		PasswordHash: "$2a$12$fixture-hash",
	})

	assert.ErrorIs(t, err, repo.ErrDuplicateEmail)
}

func TestUserRepo_GetByEmail(t *testing.T) {
	users := newUserRepo(t)
	ctx := context.Background()

	created := mustCreateUser(t, users, "Asha Rao", "asha@example.com")

	got, err := users.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_SearchByName(t *testing.T) {
	users := newUserRepo(t)
	ctx := context.Background()

	asha := mustCreateUser(t, users, "Asha Rao", "asha@example.com")
	mustCreateUser(t, users, "Ashank Gupta", "ashank@example.com")
	mustCreateUser(t, users, "Priya Patel", "priya@example.com")

	// Case-insensitive substring match, excluding the caller, ordered by name.
	got, err := users.SearchByName(ctx, "ASH", asha.ID, 20)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ashank Gupta", got[0].Name)
}

func TestUserRepo_SearchByName_WildcardsMatchLiterally(t *testing.T) {
	users := newUserRepo(t)
	ctx := context.Background()

	mustCreateUser(t, users, "Asha Rao", "asha@example.com")

	// A bare % must not match everything.
	got, err := users.SearchByName(ctx, "%", uuid.New(), 20)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUserRepo_SearchByName_Limit(t *testing.T) {
	users := newUserRepo(t)
	ctx := context.Background()

	mustCreateUser(t, users, "Sam One", "sam1@example.com")
	mustCreateUser(t, users, "Sam Two", "sam2@example.com")
	mustCreateUser(t, users, "Sam Three", "sam3@example.com")

	got, err := users.SearchByName(ctx, "Sam", uuid.New(), 2)

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUserRepo_FilterExisting(t *testing.T) {
	users := newUserRepo(t)
	ctx := context.Background()

	a := mustCreateUser(t, users, "A", "a@example.com")
	b := mustCreateUser(t, users, "B", "b@example.com")
	ghost := uuid.New()

	got, err := users.FilterExisting(ctx, []uuid.UUID{a.ID, ghost, b.ID})

	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, got)
}

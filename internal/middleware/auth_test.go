package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkulkarni/tripmate/internal/domain"
	"github.com/nkulkarni/tripmate/internal/middleware"
)

// stubTokens verifies tokens by treating the token string as a literal user
// id — invalid UUIDs read as invalid tokens.
type stubTokens struct{}

func (stubTokens) ParseToken(token string) (uuid.UUID, error) {
	id, err := uuid.Parse(token)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return id, nil
}

// stubUsers resolves every id to a bare user, unless told otherwise.
type stubUsers struct {
	getByID func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (s stubUsers) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	if s.getByID != nil {
		return s.getByID(ctx, id)
	}
	return domain.User{ID: id, Name: "Test User"}, nil
}

// echoCaller responds 200 with the authenticated caller's id, so tests can
// see what landed in the context.
var echoCaller = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(user.ID.String()))
})

func decodeFailure(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.False(t, envelope.Success)
	return envelope.Message
}

func TestAuthenticator_NoToken(t *testing.T) {
	h := middleware.NewAuthenticator(stubTokens{}, stubUsers{}).Handler(echoCaller)

	req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "access denied: no token provided", decodeFailure(t, rec))
}

func TestAuthenticator_InvalidToken(t *testing.T) {
	h := middleware.NewAuthenticator(stubTokens{}, stubUsers{}).Handler(echoCaller)

	req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", decodeFailure(t, rec))
}

func TestAuthenticator_BearerToken(t *testing.T) {
	h := middleware.NewAuthenticator(stubTokens{}, stubUsers{}).Handler(echoCaller)
	caller := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	req.Header.Set("Authorization", "Bearer "+caller.String())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, caller.String(), rec.Body.String())
}

func TestAuthenticator_LegacyHeaderToken(t *testing.T) {
	h := middleware.NewAuthenticator(stubTokens{}, stubUsers{}).Handler(echoCaller)
	caller := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	req.Header.Set("x-auth-token", caller.String())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, caller.String(), rec.Body.String())
}

func TestAuthenticator_DeletedUser(t *testing.T) {
	users := stubUsers{getByID: func(_ context.Context, _ uuid.UUID) (domain.User, error) {
		return domain.User{}, domain.ErrNotFound
	}}
	h := middleware.NewAuthenticator(stubTokens{}, users).Handler(echoCaller)

	req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	req.Header.Set("Authorization", "Bearer "+uuid.New().String())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// A syntactically valid token naming a vanished account is 404, not 401.
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "user not found", decodeFailure(t, rec))
}

func TestAuthenticator_LookupFailure(t *testing.T) {
	users := stubUsers{getByID: func(_ context.Context, _ uuid.UUID) (domain.User, error) {
		return domain.User{}, errors.New("db down")
	}}
	h := middleware.NewAuthenticator(stubTokens{}, users).Handler(echoCaller)

	req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	req.Header.Set("Authorization", "Bearer "+uuid.New().String())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

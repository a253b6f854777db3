package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nkulkarni/tripmate/internal/domain"
)

// tokenParser verifies an identity token and returns the user id it names.
// Satisfied by *service.AuthService.
type tokenParser interface {
	ParseToken(token string) (uuid.UUID, error)
}

// userLoader resolves a user id to the full user record.
// Satisfied by *service.UserService.
type userLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// Authenticator turns a bearer token into an authenticated caller in the
// request context. Every /api route except signup/login runs behind it.
type Authenticator struct {
	tokens tokenParser
	users  userLoader
}

// NewAuthenticator constructs an Authenticator.
func NewAuthenticator(tokens tokenParser, users userLoader) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Handler rejects requests without a valid token (401), with a token naming
// a user that no longer exists (404), and stores the caller in the context
// otherwise. Accepts both "Authorization: Bearer <token>" and the legacy
// "x-auth-token" header.
func (a *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			reject(w, http.StatusUnauthorized, "access denied: no token provided")
			return
		}

		userID, err := a.tokens.ParseToken(token)
		if err != nil {
			reject(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := a.users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				reject(w, http.StatusNotFound, "user not found")
				return
			}
			slog.ErrorContext(r.Context(), "authenticator: load user", "error", err)
			reject(w, http.StatusInternalServerError, "internal server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// extractToken pulls the identity token from the Authorization header
// (Bearer scheme) or the legacy x-auth-token header.
func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get("x-auth-token"))
}

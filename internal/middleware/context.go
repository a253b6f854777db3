// Package middleware provides reusable HTTP middleware for the TripMate API:
// request logging, CORS, body-size limits, token authentication, and the
// trip access gate.
package middleware

import (
	"context"

	"github.com/nkulkarni/tripmate/internal/domain"
)

// ctxKey is unexported so no other package can collide with our context keys.
type ctxKey int

const (
	userKey ctxKey = iota
	tripKey
	roleKey
)

// WithUser returns a context carrying the authenticated caller.
func WithUser(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom returns the authenticated caller stored by the Authenticator.
// The second return is false on routes that did not pass through it.
func UserFrom(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(userKey).(domain.User)
	return user, ok
}

// WithTrip returns a context carrying the gate-resolved trip and the
// caller's role for it.
func WithTrip(ctx context.Context, trip domain.Trip, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, tripKey, trip)
	return context.WithValue(ctx, roleKey, role)
}

// TripFrom returns the trip resolved by the gate middleware, saving
// downstream handlers a second lookup.
func TripFrom(ctx context.Context) (domain.Trip, bool) {
	trip, ok := ctx.Value(tripKey).(domain.Trip)
	return trip, ok
}

// RoleFrom returns the caller's role for the gate-resolved trip.
func RoleFrom(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(roleKey).(domain.Role)
	return role, ok
}

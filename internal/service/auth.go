// Package service contains the business logic for the TripMate API.
// Services validate inputs, enforce business rules and access policies, and
// orchestrate repo calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nkulkarni/tripmate/internal/domain"
)

// AuthService issues and verifies caller-identity tokens and hashes
// passwords. Tokens are HS256 JWTs whose subject is the user id.
type AuthService struct {
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
}

// NewAuthService constructs an AuthService.
// bcryptCost below bcrypt.MinCost falls back to bcrypt.DefaultCost.
func NewAuthService(secret string, tokenTTL time.Duration, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{secret: []byte(secret), tokenTTL: tokenTTL, bcryptCost: bcryptCost}
}

// claims is the JWT claim set carried by every issued token.
type claims struct {
	jwt.RegisteredClaims
}

// HashPassword returns the bcrypt hash of a plaintext password.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("service.AuthService.HashPassword: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored bcrypt hash.
// Returns domain.ErrUnauthorized on mismatch so callers never learn whether
// the failure was a bad hash or a bad password.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("service.AuthService.CheckPassword: %w", domain.ErrUnauthorized)
	}
	return nil
}

// GenerateToken signs a new token identifying userID, valid for the
// configured TTL.
func (s *AuthService) GenerateToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    "tripmate",
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("service.AuthService.GenerateToken: %w", err)
	}
	return token, nil
}

// ParseToken verifies a token's signature and expiry and returns the user id
// it identifies. Any parse or claim failure maps to domain.ErrUnauthorized.
func (s *AuthService) ParseToken(tokenString string) (uuid.UUID, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.AuthService.ParseToken: %w", domain.ErrUnauthorized)
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.AuthService.ParseToken: subject: %w", domain.ErrUnauthorized)
	}
	return userID, nil
}

package handler

import (
	"encoding/json"
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/nkulkarni/tripmate/internal/domain"
	"github.com/nkulkarni/tripmate/internal/middleware"
)

// signUpRequest is the POST /api/user/signUp payload.
type signUpRequest struct {
	Name              string              `json:"name"`
	Email             openapi_types.Email `json:"email"`
	Password          string              `json:"password"`
	ImageURL          string              `json:"imageUrl,omitempty"`
	Phone             string              `json:"phone,omitempty"`
	EmergencyContacts []string            `json:"emergencyContacts,omitempty"`
}

// loginRequest is the POST /api/user/login payload.
type loginRequest struct {
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
}

// userResponse is the client-safe projection of a user record.
// The password hash never crosses this boundary.
type userResponse struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	ImageURL          string   `json:"imageUrl,omitempty"`
	Phone             string   `json:"phone,omitempty"`
	EmergencyContacts []string `json:"emergencyContacts,omitempty"`
}

func userToResponse(u domain.User) userResponse {
	return userResponse{
		ID:                u.ID.String(),
		Name:              u.Name,
		Email:             u.Email,
		ImageURL:          u.ImageURL,
		Phone:             u.Phone,
		EmergencyContacts: u.EmergencyContacts,
	}
}

// handleSignUp handles POST /api/user/signUp.
func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var body signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := domain.User{
		Name:              body.Name,
		Email:             string(body.Email),
		ImageURL:          body.ImageURL,
		Phone:             body.Phone,
		EmergencyContacts: body.EmergencyContacts,
	}

	created, token, err := s.users.SignUp(r.Context(), user, body.Password)
	if err != nil {
		writeDomainError(w, r, err, "user not found")
		return
	}

	respond(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    userToResponse(created),
		"token":   token,
	})
}

// handleLogin handles POST /api/user/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := s.users.Login(r.Context(), string(body.Email), body.Password)
	if err != nil {
		writeDomainError(w, r, err, "user not found")
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    userToResponse(user),
		"token":   token,
	})
}

// handleSearchUsers handles GET /api/collaborations/search-users?query=.
// Results never include the caller, even when their own name matches.
func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	users, err := s.users.Search(r.Context(), r.URL.Query().Get("query"), caller.ID)
	if err != nil {
		writeDomainError(w, r, err, "user not found")
		return
	}

	results := make([]userResponse, len(users))
	for i, u := range users {
		results[i] = userToResponse(u)
	}
	respond(w, http.StatusOK, map[string]any{
		"success": true,
		"users":   results,
		"count":   len(results),
	})
}

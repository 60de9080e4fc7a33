// ABOUTME: Login, registration and profile HTTP handlers
// ABOUTME: Login returns the access token in the body and echoes it as a bearer header

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/quillhq/quill/internal/auth"
	"github.com/quillhq/quill/internal/store"
)

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the JSON response for a successful login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// RegisterRequest is the JSON body for POST /register.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ProfileResponse is the JSON view of the authenticated principal. It is a
// projection of the request's Principal; the password hash never appears here.
type ProfileResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// handleLogin validates the credentials and issues a bearer token. On any
// credential failure the client gets the same generic 401; store failures
// surface as 500 so an unreachable database is never reported as a bad
// password.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		s.sendJSONError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	principal, err := s.validator.Validate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.sendJSONError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.logger.Error("credential validation failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := s.issuer.Issue(principal)
	if err != nil {
		s.logger.Error("token issuance failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.logger.Info("login successful", "username", principal.Username)
	w.Header().Set("Authorization", "Bearer "+token)
	s.sendJSON(w, http.StatusOK, LoginResponse{AccessToken: token})
}

// handleRegister creates a new user with the USER role. Duplicate usernames
// and emails get 409.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := validateRegistration(&req); msg != "" {
		s.sendJSONError(w, http.StatusBadRequest, msg)
		return
	}

	// Check both conflicts up front so the caller learns which field
	// collided before we spend a bcrypt hash. CreateUser still enforces
	// uniqueness, so a racing registration loses there instead.
	if taken, err := s.store.ExistsByUsername(r.Context(), req.Username); err != nil {
		s.logger.Error("username lookup failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal error")
		return
	} else if taken {
		s.sendJSONError(w, http.StatusConflict, "username already exists")
		return
	}
	if taken, err := s.store.ExistsByEmail(r.Context(), req.Email); err != nil {
		s.logger.Error("email lookup failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal error")
		return
	} else if taken {
		s.sendJSONError(w, http.StatusConflict, "email already exists")
		return
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("password hashing failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user := &store.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Roles:        []string{string(auth.RoleUser)},
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateUsername):
			s.sendJSONError(w, http.StatusConflict, "username already exists")
		case errors.Is(err, store.ErrDuplicateEmail):
			s.sendJSONError(w, http.StatusConflict, "email already exists")
		default:
			s.logger.Error("user creation failed", "error", err)
			s.sendJSONError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	s.logger.Info("user registered", "username", user.Username)
	w.Header().Set("Location", "/users/"+user.ID)
	w.WriteHeader(http.StatusCreated)
}

// validateRegistration checks required fields. Returns an error message,
// empty if the request is valid.
func validateRegistration(req *RegisterRequest) string {
	if req.Username == "" {
		return "username is required"
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return "a valid email is required"
	}
	if len(req.Password) < 8 {
		return "password must be at least 8 characters"
	}
	if len(req.Password) > 20 {
		return "password must be at most 20 characters"
	}
	return ""
}

// handleProfile returns the authenticated principal.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())
	if p == nil {
		s.sendJSONError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	s.sendJSON(w, http.StatusOK, ProfileResponse{
		ID:       p.ID,
		Username: p.Username,
		Email:    p.Email,
		Roles:    p.RoleStrings(),
	})
}

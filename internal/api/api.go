// ABOUTME: HTTP API server for quill with per-route role requirements
// ABOUTME: Wires the auth middleware chain in front of the blog handlers

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/quillhq/quill/internal/auth"
	"github.com/quillhq/quill/internal/store"
)

// Server holds the API's dependencies and registers its routes.
type Server struct {
	store     store.Store
	validator *auth.CredentialValidator
	issuer    auth.TokenIssuer
	verifier  auth.TokenVerifier
	hasher    *auth.PasswordHasher
	logger    *slog.Logger
}

// NewServer creates an API server over the given store and token service.
func NewServer(st store.Store, tokens *auth.TokenService, hasher *auth.PasswordHasher) *Server {
	return &Server{
		store:     st,
		validator: auth.NewCredentialValidator(st, hasher),
		issuer:    tokens,
		verifier:  tokens,
		hasher:    hasher,
		logger:    slog.Default().With("component", "api"),
	}
}

// RegisterRoutes registers all API routes on the mux. Role requirements are
// declared here, per route, so the full operation-to-roles mapping is
// readable in one place.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Public endpoints
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /posts", s.handleListPosts)
	mux.HandleFunc("GET /posts/{id}", s.handleGetPost)
	mux.HandleFunc("GET /posts/{id}/comments", s.handleListComments)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)

	// Protected endpoints
	mux.Handle("GET /profile", s.protected(s.handleProfile))
	mux.Handle("POST /posts", s.protected(s.handleCreatePost, auth.RoleUser, auth.RoleAdmin))
	mux.Handle("PUT /posts/{id}", s.protected(s.handleUpdatePost, auth.RoleUser, auth.RoleAdmin))
	mux.Handle("DELETE /posts/{id}", s.protected(s.handleDeletePost, auth.RoleAdmin))
	mux.Handle("POST /posts/{id}/comments", s.protected(s.handleAddComment, auth.RoleUser))
}

// protected wraps a handler with bearer authentication followed by the role
// check for the given requirement. An empty requirement means any
// authenticated caller.
func (s *Server) protected(h http.HandlerFunc, roles ...auth.Role) http.Handler {
	authn := auth.Middleware(s.verifier)
	return authn(auth.RequireRoles(roles...)(h))
}

// Handler returns the fully wired http.Handler, including request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return s.logRequests(mux)
}

// logRequests logs every request with method, path, status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// sendJSON writes a JSON response with the given status.
func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// sendJSONError writes a JSON error response.
func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

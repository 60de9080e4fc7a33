// ABOUTME: Public user lookup handler
// ABOUTME: Returns a user by ID, optionally with their posts, never the password hash

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/quillhq/quill/internal/store"
)

// UserResponse is the JSON view of a user. Posts is populated only when the
// caller asks for it; the password hash is never part of this projection.
type UserResponse struct {
	ID        string         `json:"id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	FirstName string         `json:"first_name,omitempty"`
	LastName  string         `json:"last_name,omitempty"`
	Roles     []string       `json:"roles"`
	CreatedAt time.Time      `json:"created_at"`
	Posts     []PostResponse `json:"posts,omitempty"`
}

// handleGetUser returns a single user by ID. With ?withPosts=true the
// response also carries the user's posts, newest-first.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	user, err := s.store.GetUserByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.sendJSONError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		s.logger.Error("fetching user failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     user.Roles,
		CreatedAt: user.CreatedAt,
	}

	withPosts, _ := strconv.ParseBool(r.URL.Query().Get("withPosts"))
	if withPosts {
		posts, err := s.store.ListPostsByAuthor(r.Context(), user.ID)
		if err != nil {
			s.logger.Error("listing user posts failed", "error", err)
			s.sendJSONError(w, http.StatusInternalServerError, "internal error")
			return
		}
		resp.Posts = make([]PostResponse, 0, len(posts))
		for _, p := range posts {
			resp.Posts = append(resp.Posts, postResponse(p))
		}
	}

	s.sendJSON(w, http.StatusOK, resp)
}

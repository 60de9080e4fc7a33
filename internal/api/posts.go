// ABOUTME: Blog post and comment HTTP handlers
// ABOUTME: Post bodies are Markdown, optionally rendered to HTML on read

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"github.com/quillhq/quill/internal/auth"
	"github.com/quillhq/quill/internal/store"
)

// PostRequest is the JSON body for creating or updating a post.
type PostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PostResponse is the JSON view of a post.
type PostResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentRequest is the JSON body for adding a comment.
type CommentRequest struct {
	Content string `json:"content"`
}

// CommentResponse is the JSON view of a comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func postResponse(p *store.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// handleListPosts handles GET /posts with optional ?q, ?skip and ?limit.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	keyword := q.Get("q")
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	posts, err := s.store.ListPosts(r.Context(), keyword, skip, limit)
	if err != nil {
		s.logger.Error("listing posts failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	response := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		response = append(response, postResponse(p))
	}
	s.sendJSON(w, http.StatusOK, response)
}

// handleGetPost handles GET /posts/{id}. When the client prefers text/html
// the Markdown body is rendered with goldmark; otherwise the raw post is
// returned as JSON.
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.store.GetPost(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "post not found")
			return
		}
		s.logger.Error("fetching post failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		var htmlBuf bytes.Buffer
		if err := goldmark.Convert([]byte(post.Content), &htmlBuf); err != nil {
			s.logger.Error("failed to convert markdown", "error", err)
			s.sendJSONError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(htmlBuf.Bytes())
		return
	}

	s.sendJSON(w, http.StatusOK, postResponse(post))
}

// handleCreatePost handles POST /posts. Requires USER or ADMIN.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		s.sendJSONError(w, http.StatusBadRequest, "title is required")
		return
	}

	post := &store.Post{
		ID:       uuid.NewString(),
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: p.ID,
	}

	if err := s.store.CreatePost(r.Context(), post); err != nil {
		s.logger.Error("creating post failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Location", "/posts/"+post.ID)
	w.WriteHeader(http.StatusCreated)
}

// handleUpdatePost handles PUT /posts/{id}. Requires USER or ADMIN.
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.store.UpdatePost(r.Context(), r.PathValue("id"), req.Title, req.Content)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "post not found")
			return
		}
		s.logger.Error("updating post failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleDeletePost handles DELETE /posts/{id}. Requires ADMIN.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeletePost(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "post not found")
			return
		}
		s.logger.Error("deleting post failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleAddComment handles POST /posts/{id}/comments. Requires USER.
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		s.sendJSONError(w, http.StatusBadRequest, "content is required")
		return
	}

	postID := r.PathValue("id")
	comment := &store.Comment{
		ID:       uuid.NewString(),
		PostID:   postID,
		AuthorID: p.ID,
		Content:  req.Content,
	}

	if err := s.store.AddComment(r.Context(), comment); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "post not found")
			return
		}
		s.logger.Error("adding comment failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Location", "/posts/"+postID+"/comments/"+comment.ID)
	w.WriteHeader(http.StatusCreated)
}

// handleListComments handles GET /posts/{id}/comments.
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("id")
	if _, err := s.store.GetPost(r.Context(), postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "post not found")
			return
		}
		s.logger.Error("fetching post failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	comments, err := s.store.ListComments(r.Context(), postID)
	if err != nil {
		s.logger.Error("listing comments failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	response := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		response = append(response, CommentResponse{
			ID:        c.ID,
			PostID:    c.PostID,
			AuthorID:  c.AuthorID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}
	s.sendJSON(w, http.StatusOK, response)
}

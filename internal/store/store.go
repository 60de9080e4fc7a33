// ABOUTME: Store interface and data types for quill persistence
// ABOUTME: Defines User, Post, Comment structs and the Store interface

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateUsername is returned when creating a user whose username is taken
var ErrDuplicateUsername = errors.New("username already exists")

// ErrDuplicateEmail is returned when creating a user whose email is taken
var ErrDuplicateEmail = errors.New("email already exists")

// User represents a stored user record. PasswordHash is a bcrypt digest and
// never leaves the persistence/validation boundary: it is not serialized in
// API responses and not logged.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Post represents a blog post
type Post struct {
	ID        string
	Title     string
	Content   string
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment represents a comment attached to a post
type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}

// Store defines the interface for user, post and comment persistence
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Roles
	AddRole(ctx context.Context, userID, role string) error
	RemoveRole(ctx context.Context, userID, role string) error
	ListRoles(ctx context.Context, userID string) ([]string, error)

	// Posts
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id string) (*Post, error)
	ListPosts(ctx context.Context, keyword string, skip, limit int) ([]*Post, error)
	ListPostsByAuthor(ctx context.Context, authorID string) ([]*Post, error)
	UpdatePost(ctx context.Context, id, title, content string) error
	DeletePost(ctx context.Context, id string) error

	// Comments
	AddComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, postID string) ([]*Comment, error)

	// Close releases the underlying database handle
	Close() error
}

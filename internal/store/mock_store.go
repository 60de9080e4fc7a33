// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu       sync.RWMutex
	users    map[string]*User      // keyed by user ID
	byName   map[string]string     // keyed by username -> user ID
	byEmail  map[string]string     // keyed by email -> user ID
	roles    map[string][]string   // keyed by user ID
	posts    map[string]*Post      // keyed by post ID
	comments map[string][]*Comment // keyed by post ID

	// FailLookups forces GetUserByUsername to return an opaque error,
	// simulating an unreachable backing store.
	FailLookups error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		users:    make(map[string]*User),
		byName:   make(map[string]string),
		byEmail:  make(map[string]string),
		roles:    make(map[string][]string),
		posts:    make(map[string]*Post),
		comments: make(map[string][]*Comment),
	}
}

// CreateUser stores a new user.
func (m *MockStore) CreateUser(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byName[user.Username]; exists {
		return ErrDuplicateUsername
	}
	if _, exists := m.byEmail[user.Email]; exists {
		return ErrDuplicateEmail
	}

	// Make a copy to avoid external modification
	u := *user
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.UpdatedAt = time.Now().UTC()
	m.users[u.ID] = &u
	m.byName[u.Username] = u.ID
	m.byEmail[u.Email] = u.ID
	m.roles[u.ID] = append([]string(nil), u.Roles...)
	return nil
}

// GetUserByUsername retrieves a user by username.
func (m *MockStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailLookups != nil {
		return nil, m.FailLookups
	}

	id, ok := m.byName[username]
	if !ok {
		return nil, ErrNotFound
	}
	return m.getUserLocked(id)
}

// GetUserByID retrieves a user by ID.
func (m *MockStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getUserLocked(id)
}

func (m *MockStore) getUserLocked(id string) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	cp.Roles = append([]string(nil), m.roles[id]...)
	sort.Strings(cp.Roles)
	return &cp, nil
}

// ExistsByUsername reports whether a username is taken.
func (m *MockStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byName[username]
	return ok, nil
}

// ExistsByEmail reports whether an email is taken.
func (m *MockStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byEmail[email]
	return ok, nil
}

// AddRole adds a role to a user, idempotently.
func (m *MockStore) AddRole(ctx context.Context, userID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.roles[userID] {
		if r == role {
			return nil
		}
	}
	m.roles[userID] = append(m.roles[userID], role)
	return nil
}

// RemoveRole removes a role from a user, idempotently.
func (m *MockStore) RemoveRole(ctx context.Context, userID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	roles := m.roles[userID]
	for i, r := range roles {
		if r == role {
			m.roles[userID] = append(roles[:i], roles[i+1:]...)
			return nil
		}
	}
	return nil
}

// ListRoles returns a user's roles sorted for stable output.
func (m *MockStore) ListRoles(ctx context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	roles := append([]string(nil), m.roles[userID]...)
	sort.Strings(roles)
	return roles, nil
}

// CreatePost stores a new post.
func (m *MockStore) CreatePost(ctx context.Context, post *Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := *post
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	m.posts[p.ID] = &p
	return nil
}

// GetPost retrieves a post by ID.
func (m *MockStore) GetPost(ctx context.Context, id string) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// ListPosts returns posts newest-first with keyword filtering and paging.
func (m *MockStore) ListPosts(ctx context.Context, keyword string, skip, limit int) ([]*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}
	if skip < 0 {
		skip = 0
	}

	var all []*Post
	for _, p := range m.posts {
		if keyword == "" || strings.Contains(strings.ToLower(p.Title), strings.ToLower(keyword)) {
			cp := *p
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if skip >= len(all) {
		return nil, nil
	}
	all = all[skip:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// ListPostsByAuthor returns all posts by the given author, newest-first.
func (m *MockStore) ListPostsByAuthor(ctx context.Context, authorID string) ([]*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var posts []*Post
	for _, p := range m.posts {
		if p.AuthorID == authorID {
			cp := *p
			posts = append(posts, &cp)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

// UpdatePost sets a post's title and content.
func (m *MockStore) UpdatePost(ctx context.Context, id, title, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return ErrNotFound
	}
	p.Title = title
	p.Content = content
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// DeletePost removes a post and its comments.
func (m *MockStore) DeletePost(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return ErrNotFound
	}
	delete(m.posts, id)
	delete(m.comments, id)
	return nil
}

// AddComment stores a comment for an existing post.
func (m *MockStore) AddComment(ctx context.Context, comment *Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[comment.PostID]; !ok {
		return ErrNotFound
	}
	c := *comment
	c.CreatedAt = time.Now().UTC()
	m.comments[c.PostID] = append(m.comments[c.PostID], &c)
	return nil
}

// ListComments returns a post's comments oldest-first.
func (m *MockStore) ListComments(ctx context.Context, postID string) ([]*Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Comment, 0, len(m.comments[postID]))
	for _, c := range m.comments[postID] {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// Close is a no-op for the mock store.
func (m *MockStore) Close() error {
	return nil
}

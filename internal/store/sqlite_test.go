// ABOUTME: Integration-style tests for the SQLite store
// ABOUTME: Covers users, roles, posts, comments and uniqueness constraints

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance
var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MockStore)(nil)
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err, "failed to create SQLite store")
	t.Cleanup(func() { s.Close() })

	return s
}

func testUser(username, email string, roles ...string) *User {
	return &User{
		ID:           "id-" + username,
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$04$fakefakefakefakefakefakefakefakefakefakefakefakefake",
		FirstName:    "Test",
		LastName:     "User",
		Roles:        roles,
	}
}

func TestCreateUser_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	user := testUser("hantsy", "hantsy@example.com", "USER")
	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUserByUsername(ctx, "hantsy")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "hantsy", got.Username)
	assert.Equal(t, "hantsy@example.com", got.Email)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
	assert.Equal(t, []string{"USER"}, got.Roles)
	assert.False(t, got.CreatedAt.IsZero())

	byID, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Username, byID.Username)
}

func TestGetUser_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.GetUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetUserByID(context.Background(), "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUser_Duplicates(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("hantsy", "hantsy@example.com", "USER")))

	dupName := testUser("hantsy", "other@example.com")
	dupName.ID = "id-other1"
	err := s.CreateUser(ctx, dupName)
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	dupEmail := testUser("other", "hantsy@example.com")
	dupEmail.ID = "id-other2"
	err = s.CreateUser(ctx, dupEmail)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestExists(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("hantsy", "hantsy@example.com")))

	exists, err := s.ExistsByUsername(ctx, "hantsy")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.ExistsByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = s.ExistsByEmail(ctx, "hantsy@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRoles_AddRemoveIdempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("hantsy", "hantsy@example.com", "USER")))

	// Adding an existing role succeeds silently
	require.NoError(t, s.AddRole(ctx, "id-hantsy", "USER"))
	require.NoError(t, s.AddRole(ctx, "id-hantsy", "ADMIN"))

	roles, err := s.ListRoles(ctx, "id-hantsy")
	require.NoError(t, err)
	assert.Equal(t, []string{"ADMIN", "USER"}, roles)

	require.NoError(t, s.RemoveRole(ctx, "id-hantsy", "ADMIN"))
	// Removing a non-existent role succeeds silently
	require.NoError(t, s.RemoveRole(ctx, "id-hantsy", "ADMIN"))

	roles, err = s.ListRoles(ctx, "id-hantsy")
	require.NoError(t, err)
	assert.Equal(t, []string{"USER"}, roles)
}

func TestPosts_CRUD(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	post := &Post{
		ID:       "post-1",
		Title:    "Getting started",
		Content:  "# Hello\n\nFirst post.",
		AuthorID: "id-hantsy",
	}
	require.NoError(t, s.CreatePost(ctx, post))

	got, err := s.GetPost(ctx, "post-1")
	require.NoError(t, err)
	assert.Equal(t, "Getting started", got.Title)
	assert.Equal(t, post.Content, got.Content)

	require.NoError(t, s.UpdatePost(ctx, "post-1", "Updated title", "updated content"))
	got, err = s.GetPost(ctx, "post-1")
	require.NoError(t, err)
	assert.Equal(t, "Updated title", got.Title)

	assert.ErrorIs(t, s.UpdatePost(ctx, "missing", "t", "c"), ErrNotFound)

	require.NoError(t, s.DeletePost(ctx, "post-1"))
	_, err = s.GetPost(ctx, "post-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeletePost(ctx, "post-1"), ErrNotFound)
}

func TestListPosts_KeywordAndPaging(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	titles := []string{"Go concurrency", "Go generics", "SQL basics"}
	for _, title := range titles {
		require.NoError(t, s.CreatePost(ctx, &Post{
			ID:       "post-" + title,
			Title:    title,
			Content:  "content",
			AuthorID: "id-hantsy",
		}))
	}

	all, err := s.ListPosts(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	goPosts, err := s.ListPosts(ctx, "Go", 0, 10)
	require.NoError(t, err)
	assert.Len(t, goPosts, 2)

	paged, err := s.ListPosts(ctx, "", 1, 1)
	require.NoError(t, err)
	assert.Len(t, paged, 1)

	none, err := s.ListPosts(ctx, "", 10, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListPosts_NegativeSkip(t *testing.T) {
	ctx := context.Background()

	// Both implementations clamp a negative skip to zero.
	stores := map[string]Store{
		"sqlite": createTestStore(t),
		"mock":   NewMockStore(),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.CreatePost(ctx, &Post{
				ID:       "post-1",
				Title:    "Go concurrency",
				Content:  "content",
				AuthorID: "id-hantsy",
			}))

			posts, err := s.ListPosts(ctx, "", -5, 10)
			require.NoError(t, err)
			assert.Len(t, posts, 1)
		})
	}
}

func TestListPostsByAuthor(t *testing.T) {
	ctx := context.Background()

	stores := map[string]Store{
		"sqlite": createTestStore(t),
		"mock":   NewMockStore(),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			posts := []*Post{
				{ID: "post-1", Title: "Go concurrency", Content: "c", AuthorID: "id-hantsy"},
				{ID: "post-2", Title: "Go generics", Content: "c", AuthorID: "id-hantsy"},
				{ID: "post-3", Title: "SQL basics", Content: "c", AuthorID: "id-admin"},
			}
			for _, p := range posts {
				require.NoError(t, s.CreatePost(ctx, p))
			}

			byHantsy, err := s.ListPostsByAuthor(ctx, "id-hantsy")
			require.NoError(t, err)
			require.Len(t, byHantsy, 2)
			for _, p := range byHantsy {
				assert.Equal(t, "id-hantsy", p.AuthorID)
			}

			byNobody, err := s.ListPostsByAuthor(ctx, "id-nobody")
			require.NoError(t, err)
			assert.Empty(t, byNobody)
		})
	}
}

func TestComments(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePost(ctx, &Post{
		ID:       "post-1",
		Title:    "A post",
		Content:  "content",
		AuthorID: "id-hantsy",
	}))

	err := s.AddComment(ctx, &Comment{
		ID:       "comment-1",
		PostID:   "post-1",
		AuthorID: "id-hantsy",
		Content:  "nice post",
	})
	require.NoError(t, err)

	// Commenting on a missing post fails
	err = s.AddComment(ctx, &Comment{
		ID:       "comment-2",
		PostID:   "missing",
		AuthorID: "id-hantsy",
		Content:  "lost",
	})
	assert.True(t, errors.Is(err, ErrNotFound))

	comments, err := s.ListComments(ctx, "post-1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "nice post", comments[0].Content)

	// Deleting the post cascades to its comments
	require.NoError(t, s.DeletePost(ctx, "post-1"))
	comments, err = s.ListComments(ctx, "post-1")
	require.NoError(t, err)
	assert.Empty(t, comments)
}

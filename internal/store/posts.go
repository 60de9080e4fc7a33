// ABOUTME: Post and comment persistence methods for SQLiteStore
// ABOUTME: Posts support keyword search with skip/limit paging

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreatePost inserts a new post.
func (s *SQLiteStore) CreatePost(ctx context.Context, post *Post) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	query := `
		INSERT INTO posts (id, title, content, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		post.ID,
		post.Title,
		post.Content,
		post.AuthorID,
		post.CreatedAt.Format(time.RFC3339),
		post.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}

	s.logger.Debug("created post", "post_id", post.ID, "author_id", post.AuthorID)
	return nil
}

// GetPost fetches a post by id. Returns ErrNotFound if no such post exists.
func (s *SQLiteStore) GetPost(ctx context.Context, id string) (*Post, error) {
	query := `
		SELECT id, title, content, author_id, created_at, updated_at
		FROM posts
		WHERE id = ?
	`

	var post Post
	var createdAtStr, updatedAtStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.AuthorID,
		&createdAtStr,
		&updatedAtStr,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying post: %w", err)
	}

	post.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	post.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &post, nil
}

// ListPosts returns posts newest-first, optionally filtered by a keyword
// matched against the title, with skip/limit paging. A limit of 0 defaults
// to 10.
func (s *SQLiteStore) ListPosts(ctx context.Context, keyword string, skip, limit int) ([]*Post, error) {
	if limit <= 0 {
		limit = 10
	}
	if skip < 0 {
		skip = 0
	}

	query := `
		SELECT id, title, content, author_id, created_at, updated_at
		FROM posts
		WHERE (? = '' OR title LIKE '%' || ? || '%')
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, keyword, keyword, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		var post Post
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		post.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		post.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

// ListPostsByAuthor returns all posts by the given author, newest-first.
func (s *SQLiteStore) ListPostsByAuthor(ctx context.Context, authorID string) ([]*Post, error) {
	query := `
		SELECT id, title, content, author_id, created_at, updated_at
		FROM posts
		WHERE author_id = ?
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("listing posts by author: %w", err)
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		var post Post
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		post.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		post.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

// UpdatePost sets a post's title and content. Returns ErrNotFound if no such
// post exists.
func (s *SQLiteStore) UpdatePost(ctx context.Context, id, title, content string) error {
	query := `UPDATE posts SET title = ?, content = ?, updated_at = ? WHERE id = ?`

	res, err := s.db.ExecContext(ctx, query, title, content, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating post: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost removes a post and, via the schema's cascade, its comments.
// Returns ErrNotFound if no such post exists.
func (s *SQLiteStore) DeletePost(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted post", "post_id", id)
	return nil
}

// AddComment inserts a comment for a post. Returns ErrNotFound if the post
// does not exist.
func (s *SQLiteStore) AddComment(ctx context.Context, comment *Comment) error {
	if _, err := s.GetPost(ctx, comment.PostID); err != nil {
		return err
	}

	comment.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO comments (id, post_id, author_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		comment.ID,
		comment.PostID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}
	return nil
}

// ListComments returns a post's comments oldest-first.
func (s *SQLiteStore) ListComments(ctx context.Context, postID string) ([]*Comment, error) {
	query := `
		SELECT id, post_id, author_id, content, created_at
		FROM comments
		WHERE post_id = ?
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var c Comment
		var createdAtStr string
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		c.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

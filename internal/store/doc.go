// ABOUTME: Package documentation for the store package
// ABOUTME: SQLite-backed persistence for users, roles, posts and comments

// Package store provides persistence for quill: user records with their
// bcrypt password hashes and role assignments, plus blog posts and comments.
// The production implementation is SQLite via modernc.org/sqlite; MockStore
// offers an in-memory equivalent for tests.
package store

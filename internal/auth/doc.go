// ABOUTME: Authentication and authorization core for quill
// ABOUTME: Credential validation, JWT issue/verify, and role-based access checks

// Package auth implements the authentication core: password hashing and
// credential validation, JWT token issuance and verification, and the HTTP
// middleware that attaches an authenticated Principal to the request context
// and enforces per-route role requirements.
//
// The package is stateless: every request is validated independently, no
// server-side session or revocation list exists, and token expiry is the
// only invalidation mechanism.
package auth

// ABOUTME: Credential validation against the user store
// ABOUTME: Unknown username and wrong password are deliberately indistinguishable

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/quillhq/quill/internal/store"
)

// ErrInvalidCredentials is returned for a bad username or password. The two
// cases share one error so callers (and clients timing the endpoint) cannot
// enumerate which usernames exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserLookup is the slice of the store the validator needs.
type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*store.User, error)
}

// CredentialValidator checks username/password pairs against the user store
// and produces a Principal on success.
type CredentialValidator struct {
	users  UserLookup
	hasher *PasswordHasher
}

// NewCredentialValidator creates a validator backed by the given store slice
// and hasher.
func NewCredentialValidator(users UserLookup, hasher *PasswordHasher) *CredentialValidator {
	return &CredentialValidator{users: users, hasher: hasher}
}

// Validate looks up the user and verifies the password. On success it returns
// a Principal stripped of the password hash. Unknown usernames and password
// mismatches both fail with ErrInvalidCredentials; store failures propagate
// unchanged so infrastructure problems are never reported as bad credentials.
func (v *CredentialValidator) Validate(ctx context.Context, username, password string) (*Principal, error) {
	user, err := v.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a comparison so this path costs the same as a mismatch.
			v.hasher.verifyDummy(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !v.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	roles := make([]Role, 0, len(user.Roles))
	for _, r := range user.Roles {
		role, err := ParseRole(r)
		if err != nil {
			continue
		}
		roles = append(roles, role)
	}

	return &Principal{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    roles,
	}, nil
}

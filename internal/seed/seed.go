// ABOUTME: Demo and manifest-driven user seeding for quill
// ABOUTME: Loads a TOML user manifest, falling back to built-in demo users

package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/quillhq/quill/internal/auth"
	"github.com/quillhq/quill/internal/store"
)

// Manifest is the TOML structure for a seed file.
type Manifest struct {
	Users []UserEntry `toml:"users"`
}

// UserEntry describes one user to seed. Password is plaintext in the
// manifest and bcrypt-hashed before it reaches the store.
type UserEntry struct {
	Username  string   `toml:"username"`
	Password  string   `toml:"password"`
	Email     string   `toml:"email"`
	FirstName string   `toml:"first_name"`
	LastName  string   `toml:"last_name"`
	Roles     []string `toml:"roles"`
}

// DefaultUsers are seeded when no manifest is given: a demo USER account and
// an ADMIN account.
var DefaultUsers = []UserEntry{
	{
		Username:  "hantsy",
		Password:  "password",
		Email:     "hantsy@example.com",
		FirstName: "Hantsy",
		LastName:  "Bai",
		Roles:     []string{string(auth.RoleUser)},
	},
	{
		Username: "admin",
		Password: "password",
		Email:    "admin@example.com",
		Roles:    []string{string(auth.RoleAdmin)},
	},
}

// LoadManifest reads and validates a TOML seed manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed manifest: %w", err)
	}

	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, fmt.Errorf("parsing seed manifest: %w", err)
	}

	for i, u := range m.Users {
		if u.Username == "" || u.Password == "" || u.Email == "" {
			return nil, fmt.Errorf("seed user %d: username, password and email are required", i)
		}
		for _, r := range u.Roles {
			if _, err := auth.ParseRole(r); err != nil {
				return nil, fmt.Errorf("seed user %q: %w", u.Username, err)
			}
		}
	}

	return &m, nil
}

// Apply creates the given users, hashing their passwords. Users whose
// username already exists are skipped, so seeding is idempotent. Returns the
// number of users created.
func Apply(ctx context.Context, st store.Store, hasher *auth.PasswordHasher, users []UserEntry) (int, error) {
	logger := slog.Default().With("component", "seed")

	created := 0
	for _, u := range users {
		roles := u.Roles
		if len(roles) == 0 {
			roles = []string{string(auth.RoleUser)}
		}

		hash, err := hasher.Hash(u.Password)
		if err != nil {
			return created, fmt.Errorf("hashing password for %q: %w", u.Username, err)
		}

		err = st.CreateUser(ctx, &store.User{
			ID:           uuid.NewString(),
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: hash,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			Roles:        roles,
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicateUsername) || errors.Is(err, store.ErrDuplicateEmail) {
				logger.Info("skipping existing user", "username", u.Username)
				continue
			}
			return created, fmt.Errorf("creating user %q: %w", u.Username, err)
		}

		logger.Info("seeded user", "username", u.Username, "roles", roles)
		created++
	}

	return created, nil
}

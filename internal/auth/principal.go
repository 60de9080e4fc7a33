// ABOUTME: Principal and Role types shared across the auth core
// ABOUTME: Principals are ephemeral per-request identities, never persisted

package auth

import "fmt"

// Role is a coarse-grained permission tag assigned to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ValidRoles lists all roles the system accepts.
var ValidRoles = []Role{RoleUser, RoleAdmin}

// ParseRole converts a wire string into a Role. Unknown strings are rejected
// so the role set stays a bounded enum.
func ParseRole(s string) (Role, error) {
	for _, r := range ValidRoles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Principal is the authenticated identity attached to a request. It is a
// projection of the stored user record with the password hash stripped, and
// lives only for the duration of the request.
type Principal struct {
	ID       string
	Username string
	Email    string
	Roles    []Role
}

// HasAnyRole reports whether the principal holds at least one of the given
// roles.
func (p *Principal) HasAnyRole(roles ...Role) bool {
	for _, want := range roles {
		for _, have := range p.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// RoleStrings returns the principal's roles as plain strings, in order.
func (p *Principal) RoleStrings() []string {
	out := make([]string, len(p.Roles))
	for i, r := range p.Roles {
		out[i] = string(r)
	}
	return out
}

// Authorize decides whether a request may proceed given the roles a route
// requires. An empty requirement always passes, even for anonymous callers.
// A non-empty requirement fails for anonymous callers and otherwise passes
// iff the principal holds at least one required role.
func Authorize(p *Principal, required []Role) bool {
	if len(required) == 0 {
		return true
	}
	if p == nil {
		return false
	}
	return p.HasAnyRole(required...)
}

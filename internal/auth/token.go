// ABOUTME: JWT issuance and verification using HS256 with a configured secret
// ABOUTME: Claims carry upn/sub/email/roles plus issued-at and expiry

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token errors
var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token expired")
	ErrMalformedClaims = errors.New("malformed claims")
)

// MinSecretLength is the minimum accepted signing secret length in bytes.
const MinSecretLength = 32

// Claims is the wire structure embedded in issued tokens. Field names are
// part of the external contract: upn is the human-readable principal name,
// sub carries the user id.
type Claims struct {
	Username string   `json:"upn"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenIssuer mints a signed bearer token for a principal.
type TokenIssuer interface {
	Issue(p *Principal) (string, error)
}

// TokenVerifier validates a bearer token and reconstructs its principal.
type TokenVerifier interface {
	Verify(tokenString string) (*Principal, error)
}

// TokenService implements TokenIssuer and TokenVerifier using HS256 signed
// JWTs. It is stateless and safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service with the given signing secret and
// token lifetime. Secrets shorter than MinSecretLength are rejected.
func NewTokenService(secret []byte, ttl time.Duration) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("signing secret must be at least %d bytes, got %d", MinSecretLength, len(secret))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return &TokenService{secret: secret, ttl: ttl}, nil
}

// Issue builds and signs a token for the principal. Issued-at and expiry are
// taken from the current clock, so two calls for the same principal produce
// different tokens that both verify within their validity window.
func (s *TokenService) Issue(p *Principal) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: p.Username,
		Email:    p.Email,
		Roles:    p.RoleStrings(),
		RegisteredClaims: jwt.RegisteredClaims{
			// jti keeps tokens unique even when two are issued within the
			// same second for the same principal.
			ID:        uuid.NewString(),
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature and expiry and reconstructs the
// Principal from its claims. A token whose expiry instant equals the current
// time is already expired. Tokens missing required claims are rejected with
// ErrMalformedClaims.
func (s *TokenService) Verify(tokenString string) (*Principal, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		// Only HS256-family tokens are ever issued.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		// A bad signature outranks expiry: a tampered token is invalid even
		// when its exp claim is also in the past.
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Username == "" {
		return nil, fmt.Errorf("%w: upn", ErrMalformedClaims)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: sub", ErrMalformedClaims)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: exp", ErrMalformedClaims)
	}

	roles := make([]Role, 0, len(claims.Roles))
	for _, r := range claims.Roles {
		role, err := ParseRole(r)
		if err != nil {
			return nil, fmt.Errorf("%w: roles", ErrMalformedClaims)
		}
		roles = append(roles, role)
	}

	return &Principal{
		ID:       claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
		Roles:    roles,
	}, nil
}

// Package auth implements the connection gatekeeper: bearer-token
// verification and role checks in front of every engine operation.
package auth

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/navikt/roomboard/internal/config"
	"github.com/navikt/roomboard/internal/models"
)

var (
	// ErrAuthentication covers missing, malformed, expired or revoked credentials
	ErrAuthentication = errors.New("authentication error")
	// ErrForbidden is returned when a valid identity lacks the required role
	ErrForbidden = errors.New("admin access required")
)

// Claims carried inside a bearer token. The identity is self-contained so
// the gatekeeper does not need a user-store roundtrip on every connection;
// an optional Directory re-checks that the account is still active.
type Claims struct {
	UserID    string      `json:"user_id"`
	Username  string      `json:"username"`
	FirstName string      `json:"first_name,omitempty"`
	LastName  string      `json:"last_name,omitempty"`
	Role      models.Role `json:"role"`
	jwtv5.RegisteredClaims
}

// Directory resolves an identity's current account state. Implementations
// belong to the external identity service; a nil directory skips the check.
type Directory interface {
	IsActive(userID string) bool
}

// Gatekeeper validates bearer credentials and resolves them to identities
type Gatekeeper struct {
	secret    []byte
	tokenTTL  time.Duration
	issuer    string
	directory Directory
}

// NewGatekeeper creates a gatekeeper from auth configuration. The
// directory may be nil when no external identity service is wired.
func NewGatekeeper(cfg config.AuthConfig, directory Directory) *Gatekeeper {
	return &Gatekeeper{
		secret:    []byte(cfg.JWTSecret),
		tokenTTL:  cfg.TokenTTL,
		issuer:    cfg.Issuer,
		directory: directory,
	}
}

// Authenticate validates a bearer token and resolves it to an active
// identity. Any failure maps to ErrAuthentication; callers reject the
// connection or request before touching room state.
func (g *Gatekeeper) Authenticate(token string) (*models.Identity, error) {
	if token == "" {
		return nil, ErrAuthentication
	}

	parsed, err := jwtv5.ParseWithClaims(token, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrAuthentication
		}
		return g.secret, nil
	})
	if err != nil {
		return nil, ErrAuthentication
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrAuthentication
	}

	if g.directory != nil && !g.directory.IsActive(claims.UserID) {
		return nil, ErrAuthentication
	}

	return &models.Identity{
		ID:        claims.UserID,
		Username:  claims.Username,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Role:      claims.Role,
		IsActive:  true,
	}, nil
}

// RequireAdmin gates mutating operations on the admin role
func (g *Gatekeeper) RequireAdmin(identity *models.Identity) error {
	if identity == nil || !identity.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// IssueToken signs a bearer token for an identity. Token issuance normally
// lives with the external identity service; this is used by tooling and
// tests.
func (g *Gatekeeper) IssueToken(identity *models.Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    identity.ID,
		Username:  identity.Username,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Role:      identity.Role,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(g.tokenTTL)),
			Issuer:    g.issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}

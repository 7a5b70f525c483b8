package directory

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the claim schema carried by a session token: identity,
// login, and the role held at issuance. Authorization decisions re-derive
// the role from the live record; the claim only identifies which account
// to re-fetch.
type AuthClaims interface {
	Subject() string
	AccountID() string
	Login() string
	Role() AccountRole
	Expires() time.Time
	IssuedAt() time.Time
}

// SessionClaims is the concrete JWT implementation of AuthClaims
type SessionClaims struct {
	jwt.RegisteredClaims
	UID          string `json:"uid,omitempty"`
	AccountLogin string `json:"login,omitempty"`
	AccountRole  string `json:"role,omitempty"`
}

var _ AuthClaims = (*SessionClaims)(nil)

// Subject returns the subject claim
func (c *SessionClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// AccountID returns the account id claim
func (c *SessionClaims) AccountID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Login returns the login claim
func (c *SessionClaims) Login() string {
	return c.AccountLogin
}

// Role returns the role claim held at issuance
func (c *SessionClaims) Role() AccountRole {
	return c.AccountRole
}

// Expires returns the expiration time
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *SessionClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

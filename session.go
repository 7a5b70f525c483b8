package directory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var _ Session = &SessionObject{}

// SessionObject holds the attributes of an authenticated session,
// decoded from a validated token.
type SessionObject struct {
	AccountID      string      `json:"account_id,omitempty"`
	AccountLogin   string      `json:"login,omitempty"`
	AccountRole    AccountRole `json:"role,omitempty"`
	Audience       []string    `json:"audience,omitempty"`
	Issuer         string      `json:"issuer,omitempty"`
	IssuedAt       *time.Time  `json:"issued_at,omitempty"`
	ExpirationDate *time.Time  `json:"expiration_date,omitempty"`
}

func (s *SessionObject) GetAccountID() string {
	return s.AccountID
}

func (s *SessionObject) GetAccountUUID() (uuid.UUID, error) {
	return uuid.Parse(s.AccountID)
}

func (s *SessionObject) GetLogin() string {
	return s.AccountLogin
}

func (s *SessionObject) GetRole() AccountRole {
	if _, ok := ParseRole(s.AccountRole); !ok {
		return RoleUser
	}
	return s.AccountRole
}

func (s *SessionObject) GetAudience() []string {
	return s.Audience
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func (s *SessionObject) GetExpiration() *time.Time {
	return s.ExpirationDate
}

// IsAdmin reports whether the session was issued with the admin role.
// This is a hint for routing only; privileged handlers re-check the
// live record.
func (s *SessionObject) IsAdmin() bool {
	return s.GetRole() == RoleAdmin
}

func (s SessionObject) String() string {
	issuedAt := "<nil>"
	if s.IssuedAt != nil {
		issuedAt = s.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"account=%s login=%s role=%s iss=%s iat=%s",
		s.AccountID,
		s.AccountLogin,
		s.AccountRole,
		s.Issuer,
		issuedAt,
	)
}

// sessionFromAuthClaims creates a SessionObject from validated claims
func sessionFromAuthClaims(claims AuthClaims) (*SessionObject, error) {
	if claims == nil {
		return nil, ErrUnableToMapClaims
	}

	var audience []string
	if sessionClaims, ok := claims.(*SessionClaims); ok {
		audience = append(audience, sessionClaims.RegisteredClaims.Audience...)
	}

	issuedAt := claims.IssuedAt()
	expiresAt := claims.Expires()

	return &SessionObject{
		AccountID:      claims.AccountID(),
		AccountLogin:   claims.Login(),
		AccountRole:    claims.Role(),
		Audience:       audience,
		Issuer:         issuerFromClaims(claims),
		IssuedAt:       &issuedAt,
		ExpirationDate: &expiresAt,
	}, nil
}

func issuerFromClaims(claims AuthClaims) string {
	if sessionClaims, ok := claims.(*SessionClaims); ok {
		if sessionClaims.RegisteredClaims.Issuer != "" {
			return sessionClaims.RegisteredClaims.Issuer
		}
	}
	return claims.Subject()
}

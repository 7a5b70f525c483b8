package directory

import (
	"context"
	"errors"
)

// Auther issues and resolves sessions on top of the lifecycle policy
type Auther struct {
	policy       *Policy
	logger       Logger
	tokenService TokenService
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(policy *Policy, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		policy:       policy,
		logger:       defLogger{},
		tokenService: tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login authenticates the credential pair and mints a session token.
// Revoked accounts authenticate but cannot hold a session.
func (s *Auther) Login(ctx context.Context, login, password string) (string, error) {
	account, err := s.policy.Authenticate(ctx, login, password)
	if err != nil {
		s.logger.Warn("login rejected for %q", login)
		return "", err
	}

	if !account.IsActive() {
		s.logger.Warn("login attempt against revoked account %q", login)
		return "", ErrAccountDeactivated
	}

	return s.tokenService.Generate(account)
}

// SessionFromToken validates a raw token and decodes its session
func (s *Auther) SessionFromToken(raw string) (Session, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Error("session token validation failed: %v", err)
		return nil, err
	}

	session, err := sessionFromAuthClaims(claims)
	if err != nil {
		s.logger.Error("failed to create session from claims: %v", err)
		return nil, err
	}

	return session, nil
}

// AccountFromSession resolves the session's login claim back to the live
// account record. Claims are never trusted beyond identifying which
// account to re-fetch, so profile and role changes take effect on the
// next request.
func (s *Auther) AccountFromSession(ctx context.Context, session Session) (*Account, error) {
	account, err := s.policy.GetByLogin(ctx, session.GetLogin())
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrUnableToFindSession
		}
		return nil, err
	}

	return account, nil
}

package directory

import (
	"context"
	"errors"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

// Policy is the account lifecycle and authorization layer. All account
// mutations go through it; handlers never touch the store directly.
//
// Two concurrent mutations of the same account are last-writer-wins.
// The store provides no cross-request locking and this service does not
// add any.
type Policy struct {
	accounts Accounts
	hasher   PasswordAuthenticator
	guard    *LifecycleGuard
	logger   Logger
	now      func() time.Time
}

// PolicyOption customizes policy construction
type PolicyOption func(*Policy)

// WithPolicyLogger overrides the default logger
func WithPolicyLogger(logger Logger) PolicyOption {
	return func(p *Policy) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithPolicyClock injects a custom clock (useful for tests)
func WithPolicyClock(clock func() time.Time) PolicyOption {
	return func(p *Policy) {
		if clock != nil {
			p.now = clock
			p.guard = NewLifecycleGuard(WithGuardClock(clock))
		}
	}
}

// WithPasswordAuthenticator overrides the credential verifier
func WithPasswordAuthenticator(hasher PasswordAuthenticator) PolicyOption {
	return func(p *Policy) {
		if hasher != nil {
			p.hasher = hasher
		}
	}
}

// NewPolicy creates the lifecycle policy over an account store
func NewPolicy(accounts Accounts, opts ...PolicyOption) *Policy {
	p := &Policy{
		accounts: accounts,
		hasher:   NewPasswordAuthenticator(),
		guard:    NewLifecycleGuard(),
		logger:   defLogger{},
		now:      time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// Authenticate verifies a login and password pair. Unknown logins and
// wrong passwords produce the same error so callers cannot enumerate
// accounts. Revocation is not checked here: the session issuer decides
// whether a revoked account may log in.
func (p *Policy) Authenticate(ctx context.Context, login, password string) (*Account, error) {
	account, err := p.accounts.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := p.hasher.ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

// CreateAccountInput carries the fields for a new account
type CreateAccountInput struct {
	Login    string
	Password string
	Name     string
	Gender   Gender
	Birthday *time.Time
	IsAdmin  bool
}

// Create provisions a new account. Only admins may create admins. The
// login must be free across active and revoked accounts; the store's
// unique index backs the check so a concurrent duplicate still fails
// with the same conflict.
func (p *Policy) Create(ctx context.Context, requester *Account, input CreateAccountInput) (*Account, error) {
	if input.IsAdmin && !requester.IsAdmin {
		p.logger.Warn("account %s attempted to create an admin", requester.Login)
		return nil, ErrForbidden
	}

	if taken, err := p.accounts.LoginExists(ctx, input.Login); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrLoginTaken
	}

	hash, err := p.hasher.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	record := &Account{
		Login:        input.Login,
		PasswordHash: hash,
		Name:         input.Name,
		Gender:       input.Gender,
		Birthday:     input.Birthday,
		IsAdmin:      input.IsAdmin,
		CreatedAt:    p.now(),
		CreatedBy:    requester.Name,
	}

	created, err := p.accounts.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	p.logger.Info("account %s created by %s", created.Login, requester.Login)
	return created, nil
}

// ProfilePatch carries partial profile updates; nil fields are left
// unchanged.
type ProfilePatch struct {
	Name     *string
	Gender   *Gender
	Birthday *time.Time
}

// UpdateProfile applies a partial profile update to the target account.
// The requester must be the target or an admin, and the target must be
// active.
func (p *Policy) UpdateProfile(ctx context.Context, requester *Account, targetLogin string, patch ProfilePatch) (*Account, error) {
	target, err := p.accounts.GetByLogin(ctx, targetLogin)
	if err != nil {
		return nil, err
	}

	if err := p.authorizeMutation(requester, target); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		target.Name = *patch.Name
	}
	if patch.Gender != nil {
		target.Gender = *patch.Gender
	}
	if patch.Birthday != nil {
		target.Birthday = patch.Birthday
	}

	p.stampModified(target, requester)
	return p.accounts.Update(ctx, target)
}

// ChangePassword re-hashes the target's credential. Same access rule as
// profile updates. The old password is not required: holding a valid
// session for the owner or an admin is the authentication.
func (p *Policy) ChangePassword(ctx context.Context, requester *Account, targetLogin, newPassword string) (*Account, error) {
	target, err := p.accounts.GetByLogin(ctx, targetLogin)
	if err != nil {
		return nil, err
	}

	if err := p.authorizeMutation(requester, target); err != nil {
		return nil, err
	}

	hash, err := p.hasher.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	target.PasswordHash = hash
	p.stampModified(target, requester)
	return p.accounts.Update(ctx, target)
}

// ChangeLogin renames the target's login. The account id is unaffected;
// callers holding the old login must re-resolve.
func (p *Policy) ChangeLogin(ctx context.Context, requester *Account, targetLogin, newLogin string) (*Account, error) {
	target, err := p.accounts.GetByLogin(ctx, targetLogin)
	if err != nil {
		return nil, err
	}

	if err := p.authorizeMutation(requester, target); err != nil {
		return nil, err
	}

	if taken, err := p.accounts.LoginExists(ctx, newLogin); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrLoginTaken
	}

	target.Login = newLogin
	p.stampModified(target, requester)
	return p.accounts.Update(ctx, target)
}

// SoftDelete revokes the target account. Admin only; an admin cannot
// delete their own account.
func (p *Policy) SoftDelete(ctx context.Context, requester *Account, targetLogin string) (*Account, error) {
	if err := p.authorizeAdminDelete(requester, targetLogin); err != nil {
		return nil, err
	}

	target, err := p.accounts.GetByLogin(ctx, targetLogin)
	if err != nil {
		return nil, err
	}

	if err := p.guard.Revoke(target, requester.Name); err != nil {
		return nil, err
	}

	updated, err := p.accounts.Update(ctx, target)
	if err != nil {
		return nil, err
	}

	p.logger.Info("account %s soft deleted by %s", targetLogin, requester.Login)
	return updated, nil
}

// Restore reactivates a revoked account. Admin only.
func (p *Policy) Restore(ctx context.Context, requester *Account, targetLogin string) (*Account, error) {
	if !requester.IsAdmin {
		return nil, ErrForbidden
	}

	target, err := p.accounts.GetByLogin(ctx, targetLogin)
	if err != nil {
		return nil, err
	}

	if err := p.guard.Restore(target, requester.Name); err != nil {
		return nil, err
	}

	updated, err := p.accounts.Update(ctx, target)
	if err != nil {
		return nil, err
	}

	p.logger.Info("account %s restored by %s", targetLogin, requester.Login)
	return updated, nil
}

// HardDelete removes the record entirely, in any lifecycle state. Admin
// only, same self-delete guard as SoftDelete, irreversible.
func (p *Policy) HardDelete(ctx context.Context, requester *Account, targetLogin string) error {
	if err := p.authorizeAdminDelete(requester, targetLogin); err != nil {
		return err
	}

	target, err := p.accounts.GetByLogin(ctx, targetLogin)
	if err != nil {
		return err
	}

	if err := p.accounts.Delete(ctx, target.ID); err != nil {
		return err
	}

	p.logger.Info("account %s permanently deleted by %s", targetLogin, requester.Login)
	return nil
}

// GetByLogin resolves a single account for the admin read endpoint
func (p *Policy) GetByLogin(ctx context.Context, login string) (*Account, error) {
	return p.accounts.GetByLogin(ctx, login)
}

// ListAll returns every account, active and revoked
func (p *Policy) ListAll(ctx context.Context) ([]*Account, error) {
	return p.accounts.ListAll(ctx)
}

// ListActive returns active accounts ordered by creation time
func (p *Policy) ListActive(ctx context.Context) ([]*Account, error) {
	return p.accounts.ListActive(ctx)
}

// ListBornBefore returns accounts with a birthday on or before the cutoff
func (p *Policy) ListBornBefore(ctx context.Context, cutoff time.Time) ([]*Account, error) {
	return p.accounts.ListBornBefore(ctx, cutoff)
}

// ListOlderThan returns accounts at least years old as of today
func (p *Policy) ListOlderThan(ctx context.Context, years int) ([]*Account, error) {
	cutoff := p.now().AddDate(-years, 0, 0)
	return p.accounts.ListBornBefore(ctx, cutoff)
}

// DefaultAdmin is the seed configuration for the bootstrap admin account
type DefaultAdmin struct {
	Login    string
	Password string
	Name     string
}

// SeedDefaultAdmin provisions the configured admin account. The call is
// safe to repeat: an existing login yields ErrLoginTaken and callers
// treat that as a no-op. The id is derived from the login so repeated
// bootstraps against a fresh store mint the same identity.
func (p *Policy) SeedDefaultAdmin(ctx context.Context, seed DefaultAdmin) (*Account, error) {
	if taken, err := p.accounts.LoginExists(ctx, seed.Login); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrLoginTaken
	}

	hash, err := p.hasher.HashPassword(seed.Password)
	if err != nil {
		return nil, err
	}

	record := &Account{
		Login:        seed.Login,
		PasswordHash: hash,
		Name:         seed.Name,
		Gender:       GenderUnspecified,
		IsAdmin:      true,
		CreatedAt:    p.now(),
		CreatedBy:    "system",
	}

	// The id must stay stable across bootstraps against a fresh store,
	// so a derivation failure is an error, not a random fallback.
	id, err := hashid.NewUUID(seed.Login)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to derive default admin id")
	}
	record.ID = id

	created, err := p.accounts.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	p.logger.Info("default admin %s seeded", created.Login)
	return created, nil
}

// authorizeMutation applies the shared access rule for profile, password
// and login changes: the target must be active, and the requester must
// be the target or an admin. The deactivation check runs first so owners
// of revoked accounts learn the state, not a permission error.
func (p *Policy) authorizeMutation(requester, target *Account) error {
	if !target.IsActive() {
		return ErrAccountDeactivated
	}

	if !requester.IsAdmin && !strings.EqualFold(requester.Login, target.Login) {
		return ErrForbidden
	}

	return nil
}

func (p *Policy) authorizeAdminDelete(requester *Account, targetLogin string) error {
	if !requester.IsAdmin {
		return ErrForbidden
	}

	if strings.EqualFold(requester.Login, targetLogin) {
		p.logger.Warn("admin %s attempted to self delete", requester.Login)
		return ErrSelfDeleteForbidden
	}

	return nil
}

func (p *Policy) stampModified(target *Account, requester *Account) {
	now := p.now()
	target.ModifiedAt = &now
	target.ModifiedBy = requester.Login
}

package directory

import "time"

// AccountStatus is the lifecycle status of an account
type AccountStatus = string

const (
	// StatusActive is the initial status upon creation
	StatusActive AccountStatus = "active"
	// StatusRevoked marks a soft deleted account
	StatusRevoked AccountStatus = "revoked"
)

// accountTransitions is the allowed lifecycle transition table. Hard
// delete is not a transition: it removes the record from either status.
var accountTransitions = map[AccountStatus]map[AccountStatus]bool{
	StatusActive: {
		StatusRevoked: true,
	},
	StatusRevoked: {
		StatusActive: true,
	},
}

// CanTransition reports whether the lifecycle change is allowed
func CanTransition(from, to AccountStatus) bool {
	targets, ok := accountTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// LifecycleGuard applies lifecycle transitions to account records,
// stamping the revoke and audit fields with an injectable clock.
type LifecycleGuard struct {
	now func() time.Time
}

// GuardOption customizes guard construction
type GuardOption func(*LifecycleGuard)

// WithGuardClock injects a custom clock (useful for tests)
func WithGuardClock(clock func() time.Time) GuardOption {
	return func(g *LifecycleGuard) {
		if clock != nil {
			g.now = clock
		}
	}
}

// NewLifecycleGuard creates a guard with a wall clock by default
func NewLifecycleGuard(opts ...GuardOption) *LifecycleGuard {
	g := &LifecycleGuard{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Revoke transitions an account to revoked, recording who revoked it.
// The actor name goes into the audit trail, mirroring creation stamps.
func (g *LifecycleGuard) Revoke(account *Account, actorName string) error {
	if !CanTransition(account.Status(), StatusRevoked) {
		return ErrAlreadyDeleted
	}

	now := g.now()
	account.RevokedAt = &now
	account.RevokedBy = actorName
	return nil
}

// Restore transitions a revoked account back to active, clearing the
// revoke marker and stamping the modification audit fields.
func (g *LifecycleGuard) Restore(account *Account, actorName string) error {
	if !CanTransition(account.Status(), StatusActive) {
		return ErrNotDeleted
	}

	now := g.now()
	account.RevokedAt = nil
	account.RevokedBy = ""
	account.ModifiedAt = &now
	account.ModifiedBy = actorName
	return nil
}

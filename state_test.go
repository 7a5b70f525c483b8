package directory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	directory "github.com/userfactory/go-directory"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    directory.AccountStatus
		to      directory.AccountStatus
		allowed bool
	}{
		{"active to revoked", directory.StatusActive, directory.StatusRevoked, true},
		{"revoked to active", directory.StatusRevoked, directory.StatusActive, true},
		{"active to active", directory.StatusActive, directory.StatusActive, false},
		{"revoked to revoked", directory.StatusRevoked, directory.StatusRevoked, false},
		{"unknown status", "limbo", directory.StatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, directory.CanTransition(tt.from, tt.to))
		})
	}
}

func TestLifecycleGuardRevoke(t *testing.T) {
	guard := directory.NewLifecycleGuard(directory.WithGuardClock(testClock))

	account := &directory.Account{Login: "bob", Name: "Bob"}

	require.NoError(t, guard.Revoke(account, "Root"))
	assert.Equal(t, directory.StatusRevoked, account.Status())
	require.NotNil(t, account.RevokedAt)
	assert.Equal(t, testClock(), *account.RevokedAt)
	assert.Equal(t, "Root", account.RevokedBy)

	t.Run("revoking twice fails", func(t *testing.T) {
		err := guard.Revoke(account, "Root")
		assert.ErrorIs(t, err, directory.ErrAlreadyDeleted)
	})
}

func TestLifecycleGuardRestore(t *testing.T) {
	guard := directory.NewLifecycleGuard(directory.WithGuardClock(testClock))

	revokedAt := testClock().Add(-time.Hour)
	account := &directory.Account{
		Login:     "bob",
		Name:      "Bob",
		RevokedAt: &revokedAt,
		RevokedBy: "Root",
	}

	require.NoError(t, guard.Restore(account, "Root"))
	assert.Equal(t, directory.StatusActive, account.Status())
	assert.Nil(t, account.RevokedAt)
	assert.Empty(t, account.RevokedBy)
	require.NotNil(t, account.ModifiedAt)
	assert.Equal(t, testClock(), *account.ModifiedAt)
	assert.Equal(t, "Root", account.ModifiedBy)

	t.Run("restoring an active account fails", func(t *testing.T) {
		err := guard.Restore(account, "Root")
		assert.ErrorIs(t, err, directory.ErrNotDeleted)
	})
}

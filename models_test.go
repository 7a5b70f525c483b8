package directory_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	directory "github.com/userfactory/go-directory"
)

func TestAccountLifecycleAccessors(t *testing.T) {
	account := &directory.Account{Login: "alice", Name: "Alice"}

	assert.True(t, account.IsActive())
	assert.Equal(t, directory.StatusActive, account.Status())
	assert.Equal(t, directory.RoleUser, account.Role())

	account.IsAdmin = true
	assert.Equal(t, directory.RoleAdmin, account.Role())

	now := time.Now()
	account.RevokedAt = &now
	assert.False(t, account.IsActive())
	assert.Equal(t, directory.StatusRevoked, account.Status())
}

func TestGenderIsValid(t *testing.T) {
	assert.True(t, directory.GenderFemale.IsValid())
	assert.True(t, directory.GenderMale.IsValid())
	assert.True(t, directory.GenderUnspecified.IsValid())
	assert.False(t, directory.Gender(-1).IsValid())
	assert.False(t, directory.Gender(3).IsValid())
}

func TestAccountJSONHidesPasswordHash(t *testing.T) {
	account := &directory.Account{
		Login:        "alice",
		PasswordHash: "$2a$14$something",
		Name:         "Alice",
	}

	raw, err := json.Marshal(account)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "$2a$14$something")
	assert.NotContains(t, string(raw), "password_hash")
}

func TestProfileViews(t *testing.T) {
	now := time.Now()
	birthday := time.Date(1990, time.June, 1, 0, 0, 0, 0, time.UTC)

	accounts := []*directory.Account{
		{Login: "alice", Name: "Alice", Gender: directory.GenderFemale, Birthday: &birthday},
		{Login: "ghost", Name: "Ghost", RevokedAt: &now},
	}

	views := directory.NewProfileViews(accounts)
	require.Len(t, views, 2)

	assert.Equal(t, "Alice", views[0].Name)
	assert.True(t, views[0].IsActive)
	require.NotNil(t, views[0].Birthday)

	assert.Equal(t, "Ghost", views[1].Name)
	assert.False(t, views[1].IsActive)
	assert.Nil(t, views[1].Birthday)
}

func TestRoles(t *testing.T) {
	assert.True(t, directory.IsValidRole("user"))
	assert.True(t, directory.IsValidRole("admin"))
	assert.False(t, directory.IsValidRole("superuser"))
	assert.False(t, directory.IsValidRole(""))

	role, ok := directory.ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, directory.RoleAdmin, role)

	_, ok = directory.ParseRole("superuser")
	assert.False(t, ok)
}

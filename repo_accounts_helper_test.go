package directory

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPrepareAccountDefaults(t *testing.T) {
	t.Parallel()

	record := &Account{Login: "alice"}
	prepareAccountDefaults(record)

	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.False(t, record.CreatedAt.IsZero())

	t.Run("existing values are kept", func(t *testing.T) {
		id := uuid.New()
		createdAt := record.CreatedAt
		keeper := &Account{ID: id, Login: "bob", CreatedAt: createdAt}

		prepareAccountDefaults(keeper)
		assert.Equal(t, id, keeper.ID)
		assert.Equal(t, createdAt, keeper.CreatedAt)
	})

	t.Run("nil record is a no-op", func(t *testing.T) {
		prepareAccountDefaults(nil)
	})
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: accounts.login")))
	assert.True(t, isUniqueViolation(errors.New(`duplicate key value violates unique constraint "idx_accounts_login"`)))
	assert.False(t, isUniqueViolation(errors.New("no such table: accounts")))
	assert.False(t, isUniqueViolation(nil))
}

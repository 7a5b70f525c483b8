package directory_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	directory "github.com/userfactory/go-directory"
)

func newTestTokenService(expirationHours int) directory.TokenService {
	return directory.NewTokenService(
		[]byte("test-signing-key"),
		expirationHours,
		"test-issuer",
		jwt.ClaimStrings{"test:audience"},
		nopLogger{},
	)
}

func TestTokenServiceRoundTrip(t *testing.T) {
	ts := newTestTokenService(24)

	account := &directory.Account{
		ID:      uuid.New(),
		Login:   "alice",
		Name:    "Alice",
		IsAdmin: true,
	}

	token, err := ts.Generate(account)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, account.ID.String(), claims.Subject())
	assert.Equal(t, account.ID.String(), claims.AccountID())
	assert.Equal(t, "alice", claims.Login())
	assert.Equal(t, directory.RoleAdmin, claims.Role())
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.Expires(), time.Minute)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt(), time.Minute)
}

func TestTokenServiceExpiredToken(t *testing.T) {
	ts := newTestTokenService(-1)

	token, err := ts.Generate(&directory.Account{ID: uuid.New(), Login: "alice"})
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.ErrorIs(t, err, directory.ErrTokenExpired)
	assert.True(t, directory.IsTokenExpiredError(err))
}

func TestTokenServiceWrongKey(t *testing.T) {
	ts := newTestTokenService(24)

	token, err := ts.Generate(&directory.Account{ID: uuid.New(), Login: "alice"})
	require.NoError(t, err)

	other := directory.NewTokenService(
		[]byte("a-different-key"),
		24,
		"test-issuer",
		jwt.ClaimStrings{"test:audience"},
		nopLogger{},
	)

	_, err = other.Validate(token)
	require.Error(t, err)
	assert.True(t, directory.IsMalformedError(err))
	assert.NotErrorIs(t, err, directory.ErrTokenExpired)
}

func TestTokenServiceIssuerMismatch(t *testing.T) {
	ts := newTestTokenService(24)

	token, err := ts.Generate(&directory.Account{ID: uuid.New(), Login: "alice"})
	require.NoError(t, err)

	other := directory.NewTokenService(
		[]byte("test-signing-key"),
		24,
		"someone-else",
		jwt.ClaimStrings{"test:audience"},
		nopLogger{},
	)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestTokenServiceGarbageToken(t *testing.T) {
	ts := newTestTokenService(24)

	_, err := ts.Validate("not.a.token")
	require.Error(t, err)
	assert.True(t, directory.IsMalformedError(err))
}

func TestSignClaimsNil(t *testing.T) {
	ts := newTestTokenService(24)

	_, err := ts.SignClaims(nil)
	assert.Error(t, err)
}

func TestTokenServiceAssignsTokenID(t *testing.T) {
	ts := newTestTokenService(24)

	token, err := ts.Generate(&directory.Account{ID: uuid.New(), Login: "alice"})
	require.NoError(t, err)

	claims, err := ts.Validate(token)
	require.NoError(t, err)

	sessionClaims, ok := claims.(*directory.SessionClaims)
	require.True(t, ok)
	assert.NotEmpty(t, sessionClaims.RegisteredClaims.ID)
}

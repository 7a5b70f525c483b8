package directory

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrInvalidCredentials covers both unknown login and wrong password. The
// two cases are deliberately indistinguishable to callers so responses do
// not enable account enumeration.
var ErrInvalidCredentials = goerrors.New("invalid login or password", goerrors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountDeactivated is returned when an operation targets or is issued
// by a soft deleted account.
var ErrAccountDeactivated = goerrors.New("account is deactivated", goerrors.CategoryAuthz).
	WithTextCode("ACCOUNT_DEACTIVATED").
	WithCode(goerrors.CodeForbidden)

// ErrForbidden is the role or ownership violation error
var ErrForbidden = goerrors.New("operation not allowed for this account", goerrors.CategoryAuthz).
	WithTextCode("FORBIDDEN").
	WithCode(goerrors.CodeForbidden)

// ErrAccountNotFound is returned when a target login does not resolve
var ErrAccountNotFound = goerrors.New("account not found", goerrors.CategoryNotFound).
	WithTextCode("ACCOUNT_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

// ErrLoginTaken is returned when a login is already in use, by an active
// or a revoked account. Revoked logins stay reserved.
var ErrLoginTaken = goerrors.New("login already taken", goerrors.CategoryConflict).
	WithTextCode("LOGIN_TAKEN").
	WithCode(goerrors.CodeConflict)

// ErrAlreadyDeleted is returned when soft deleting a revoked account
var ErrAlreadyDeleted = goerrors.New("account is already deleted", goerrors.CategoryConflict).
	WithTextCode("ALREADY_DELETED").
	WithCode(goerrors.CodeConflict)

// ErrNotDeleted is returned when restoring an account that is active
var ErrNotDeleted = goerrors.New("account is not deleted", goerrors.CategoryValidation).
	WithTextCode("NOT_DELETED").
	WithCode(goerrors.CodeBadRequest)

// ErrSelfDeleteForbidden blocks an admin from deleting their own account
var ErrSelfDeleteForbidden = goerrors.New("admin cannot delete own account", goerrors.CategoryValidation).
	WithTextCode("SELF_DELETE_FORBIDDEN").
	WithCode(goerrors.CodeBadRequest)

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = goerrors.New("value must not be empty", goerrors.CategoryValidation).
	WithTextCode("EMPTY_VALUE").
	WithCode(goerrors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the verifier rejection error
var ErrMismatchedHashAndPassword = goerrors.New("password does not match", goerrors.CategoryAuth).
	WithTextCode("PASSWORD_MISMATCH").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned for session tokens past their expiry
var ErrTokenExpired = goerrors.New("session token is expired", goerrors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail to parse or verify
var ErrTokenMalformed = goerrors.New("session token is malformed", goerrors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(goerrors.CodeUnauthorized)

// ErrUnableToFindSession is the error when the request has no session cookie
var ErrUnableToFindSession = goerrors.New("unable to find session", goerrors.CategoryAuth).
	WithTextCode("SESSION_NOT_FOUND").
	WithCode(goerrors.CodeUnauthorized)

// ErrUnableToMapClaims is returned when token claims cannot be decoded
var ErrUnableToMapClaims = goerrors.New("unable to map claims", goerrors.CategoryAuth).
	WithTextCode("CLAIMS_INVALID").
	WithCode(goerrors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens, including errors
// raised by the JWT library before they are wrapped.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for parse level token errors
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// HTTPStatus maps an error to a response status code. Rich errors carry
// their own code; anything else is an internal failure and must not leak
// detail to the caller.
func HTTPStatus(err error) int {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Code > 0 {
		return richErr.Code
	}
	return goerrors.CodeInternal
}

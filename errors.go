package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes identify taxonomy entries across log lines and API payloads.
const (
	TextCodeMissingInput        = "AUTH_MISSING_INPUT"
	TextCodeInvalidCredentials  = "AUTH_INVALID_CREDENTIALS"
	TextCodeDuplicateEmail      = "AUTH_DUPLICATE_EMAIL"
	TextCodeStoreUnavailable    = "AUTH_STORE_UNAVAILABLE"
	TextCodeTokenInvalid        = "AUTH_TOKEN_INVALID"
	TextCodeSigningUnavailable  = "AUTH_SIGNING_UNAVAILABLE"
	TextCodeTooManyAttempts     = "AUTH_TOO_MANY_LOGIN_ATTEMPTS"
	TextCodeIdentityNotFound    = "AUTH_IDENTITY_NOT_FOUND"
	TextCodeUnableToParseClaims = "AUTH_UNPARSABLE_CLAIMS"
)

// ErrMissingInput is returned when the login payload lacks an email or a
// password. The check runs before any store access.
var ErrMissingInput = goerrors.New("email and password are required", goerrors.CategoryBadInput).
	WithTextCode(TextCodeMissingInput).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidCredentials covers every credential mismatch: unknown email,
// provider-only account without a password hash, and wrong password. The
// cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = goerrors.New("invalid credentials", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrDuplicateEmail is returned when a create hits the store's uniqueness
// constraint on email.
var ErrDuplicateEmail = goerrors.New("email already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(goerrors.CodeConflict)

// ErrStoreUnavailable wraps every store or transport failure, including
// timed-out store calls, so infrastructure detail never leaks upward.
var ErrStoreUnavailable = goerrors.New("user store unavailable", goerrors.CategoryInternal).
	WithTextCode(TextCodeStoreUnavailable).
	WithCode(goerrors.CodeInternal)

// ErrTokenInvalid is the single verification failure: expired, tampered,
// and malformed tokens are all reported identically.
var ErrTokenInvalid = goerrors.New("invalid session token", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(goerrors.CodeUnauthorized)

// ErrSigningUnavailable signals an absent or malformed signing secret. It is
// raised at construction time and is fatal, never per-request.
var ErrSigningUnavailable = goerrors.New("token signing key unavailable", goerrors.CategoryInternal).
	WithTextCode(TextCodeSigningUnavailable).
	WithCode(goerrors.CodeInternal)

// ErrTooManyLoginAttempts throttles repeated failed credential logins until
// the cooldown window elapses.
var ErrTooManyLoginAttempts = goerrors.New("too many login attempts", goerrors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts)

// ErrIdentityNotFound is an internal marker for lookups that resolved to no
// user. Credential flows translate it to ErrInvalidCredentials before it can
// reach a caller.
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrUnableToParseClaims is returned when a verified token carries claims we
// cannot decode into a session.
var ErrUnableToParseClaims = goerrors.New("unable to parse token claims", goerrors.CategoryAuth).
	WithTextCode(TextCodeUnableToParseClaims).
	WithCode(goerrors.CodeUnauthorized)

// IsInvalidCredentials reports whether err belongs to the uniform
// credential-failure outcome.
func IsInvalidCredentials(err error) bool {
	return hasTextCode(err, TextCodeInvalidCredentials)
}

// IsDuplicateEmail reports whether err is the registration conflict.
func IsDuplicateEmail(err error) bool {
	return hasTextCode(err, TextCodeDuplicateEmail)
}

// IsStoreUnavailable reports whether err is an infrastructure failure the
// caller may retry.
func IsStoreUnavailable(err error) bool {
	return hasTextCode(err, TextCodeStoreUnavailable)
}

// IsTokenInvalid reports whether err is the uniform verification failure.
func IsTokenInvalid(err error) bool {
	return hasTextCode(err, TextCodeTokenInvalid)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}

// wrapStoreError folds an arbitrary store failure into ErrStoreUnavailable
// while keeping the cause attached for logging.
func wrapStoreError(err error, msg string) error {
	return goerrors.Wrap(err, ErrStoreUnavailable.Category, msg).
		WithTextCode(ErrStoreUnavailable.TextCode).
		WithCode(ErrStoreUnavailable.Code)
}

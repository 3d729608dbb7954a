package auth_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"

	auth "github.com/goliatone/go-login"
)

func TestErrorTaxonomy(t *testing.T) {
	t.Run("ErrMissingInput", func(t *testing.T) {
		assert.Equal(t, auth.TextCodeMissingInput, auth.ErrMissingInput.TextCode)
		assert.Equal(t, goerrors.CategoryBadInput, auth.ErrMissingInput.Category)
	})

	t.Run("ErrInvalidCredentials", func(t *testing.T) {
		assert.Equal(t, auth.TextCodeInvalidCredentials, auth.ErrInvalidCredentials.TextCode)
		assert.Equal(t, goerrors.CategoryAuth, auth.ErrInvalidCredentials.Category)
	})

	t.Run("ErrDuplicateEmail", func(t *testing.T) {
		assert.Equal(t, auth.TextCodeDuplicateEmail, auth.ErrDuplicateEmail.TextCode)
		assert.Equal(t, goerrors.CategoryConflict, auth.ErrDuplicateEmail.Category)
	})

	t.Run("ErrStoreUnavailable", func(t *testing.T) {
		assert.Equal(t, auth.TextCodeStoreUnavailable, auth.ErrStoreUnavailable.TextCode)
		assert.Equal(t, goerrors.CategoryInternal, auth.ErrStoreUnavailable.Category)
	})

	t.Run("ErrTokenInvalid", func(t *testing.T) {
		assert.Equal(t, auth.TextCodeTokenInvalid, auth.ErrTokenInvalid.TextCode)
		assert.Equal(t, goerrors.CategoryAuth, auth.ErrTokenInvalid.Category)
	})

	t.Run("ErrSigningUnavailable", func(t *testing.T) {
		assert.Equal(t, auth.TextCodeSigningUnavailable, auth.ErrSigningUnavailable.TextCode)
		assert.Equal(t, goerrors.CategoryInternal, auth.ErrSigningUnavailable.Category)
	})

	t.Run("ErrTooManyLoginAttempts", func(t *testing.T) {
		assert.Equal(t, auth.TextCodeTooManyAttempts, auth.ErrTooManyLoginAttempts.TextCode)
		assert.Equal(t, goerrors.CategoryRateLimit, auth.ErrTooManyLoginAttempts.Category)
	})
}

func TestErrorMatchers(t *testing.T) {
	t.Run("match their own taxonomy entry", func(t *testing.T) {
		assert.True(t, auth.IsInvalidCredentials(auth.ErrInvalidCredentials))
		assert.True(t, auth.IsDuplicateEmail(auth.ErrDuplicateEmail))
		assert.True(t, auth.IsStoreUnavailable(auth.ErrStoreUnavailable))
		assert.True(t, auth.IsTokenInvalid(auth.ErrTokenInvalid))
	})

	t.Run("do not cross match", func(t *testing.T) {
		assert.False(t, auth.IsInvalidCredentials(auth.ErrTokenInvalid))
		assert.False(t, auth.IsTokenInvalid(auth.ErrInvalidCredentials))
		assert.False(t, auth.IsDuplicateEmail(auth.ErrStoreUnavailable))
	})

	t.Run("nil and foreign errors do not match", func(t *testing.T) {
		assert.False(t, auth.IsInvalidCredentials(nil))
		assert.False(t, auth.IsStoreUnavailable(errors.New("plain error")))
	})

	t.Run("matchers see through wrapping", func(t *testing.T) {
		wrapped := goerrors.Wrap(auth.ErrInvalidCredentials, goerrors.CategoryAuth, "login failed").
			WithTextCode(auth.TextCodeInvalidCredentials)
		assert.True(t, auth.IsInvalidCredentials(wrapped))
	})
}

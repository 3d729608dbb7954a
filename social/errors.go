package social

import "github.com/goliatone/go-errors"

const (
	TextCodeInvalidProfile   = "social_invalid_profile"
	TextCodeMissingProvider  = "social_missing_provider"
	TextCodeTokenUnavailable = "social_token_unavailable"
)

// ErrInvalidProfile is returned when a provider profile lacks the fields the
// linker needs (provider name, external id, email).
var ErrInvalidProfile = errors.New("provider profile is incomplete", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidProfile).
	WithCode(errors.CodeBadRequest)

// ErrMissingProvider is returned when the linker is constructed or invoked
// without a provider name.
var ErrMissingProvider = errors.New("provider name is required", errors.CategoryBadInput).
	WithTextCode(TextCodeMissingProvider).
	WithCode(errors.CodeBadRequest)

// ErrTokenUnavailable is returned when a login flow needs a token service but
// none was configured.
var ErrTokenUnavailable = errors.New("token service not configured", errors.CategoryInternal).
	WithTextCode(TextCodeTokenUnavailable).
	WithCode(errors.CodeInternal)

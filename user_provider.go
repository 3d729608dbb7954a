package auth

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// UserStore is the slice of the Users repository the credential path needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailWithPassword(ctx context.Context, email string) (*User, error)
	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// UserProvider verifies password credentials against the user store.
type UserProvider struct {
	store        UserStore
	logger       Logger
	storeTimeout time.Duration
}

// MaxLoginAttempts is the maximum number of failed attempts a user gets
// before the cooldown period applies.
var MaxLoginAttempts = 5

// CoolDownPeriod is the window in which failed attempts accumulate.
var CoolDownPeriod = "24h"

// DefaultStoreTimeout bounds every store call so a slow or dead store
// surfaces as ErrStoreUnavailable instead of hanging the request.
var DefaultStoreTimeout = 5 * time.Second

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:        store,
		logger:       defLogger{},
		storeTimeout: DefaultStoreTimeout,
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// WithStoreTimeout overrides the bounded timeout applied to store calls.
func (u *UserProvider) WithStoreTimeout(d time.Duration) *UserProvider {
	if d > 0 {
		u.storeTimeout = d
	}
	return u
}

// VerifyCredentials authorizes an email/password pair. Unknown emails,
// provider-only accounts, and wrong passwords are indistinguishable: all
// return ErrInvalidCredentials. The password hash never travels upward.
func (u *UserProvider) VerifyCredentials(ctx context.Context, email, password string) (*User, error) {
	// Input must be rejected before the store is ever touched.
	input := validation.Errors{
		"email":    validation.Validate(email, validation.Required),
		"password": validation.Validate(password, validation.Required),
	}
	if err := input.Filter(); err != nil {
		return nil, ErrMissingInput
	}

	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	user, err := u.store.GetByEmailWithPassword(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			u.logger.Debug("credential verification: no user for email")
			return nil, ErrInvalidCredentials
		}
		return nil, u.storeFailure(ctx, err, "failed to retrieve user during verification")
	}

	if !user.HasPassword() {
		u.logger.Debug("credential verification: provider-only account", "user_id", user.ID.String())
		return nil, ErrInvalidCredentials
	}

	if user.LoginAttemptAt != nil {
		expired, err := IsOutsideThresholdPeriod(*user.LoginAttemptAt, CoolDownPeriod)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to calculate login attempt cooldown")
		}

		if expired {
			user.LoginAttempts = 0
		}
	}

	// if we have too many attempts in the given window, cool off!
	if user.LoginAttempts > MaxLoginAttempts {
		return nil, ErrTooManyLoginAttempts
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if err2 := u.store.TrackAttemptedLogin(ctx, user); err2 != nil {
			return nil, u.storeFailure(ctx, err2, "failed to track login attempt")
		}

		return nil, ErrInvalidCredentials
	}

	if err := u.store.TrackSuccessfulLogin(ctx, user); err != nil {
		u.logger.Error("failed to track successful login", "error", err)
	}

	return user.Sanitize(), nil
}

// FindByEmail resolves a user without exposing the password hash.
func (u *UserProvider) FindByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	user, err := u.store.GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, u.storeFailure(ctx, err, "failed to retrieve user")
	}

	return user, nil
}

func (u *UserProvider) storeFailure(ctx context.Context, err error, msg string) error {
	if ctx.Err() != nil {
		u.logger.Error("store call exceeded its deadline", "error", err)
		return wrapStoreError(ctx.Err(), msg)
	}
	u.logger.Error("store call failed", "error", err)
	return wrapStoreError(err, msg)
}

var _ IdentityProvider = (*UserProvider)(nil)

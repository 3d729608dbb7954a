package social

import (
	"context"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-login"
	repository "github.com/goliatone/go-repository-bun"
)

// Outcome tags what LinkOrCreate actually did, so callers and tests assert on
// the result instead of inspecting store side effects.
type Outcome string

const (
	// OutcomeCreated means no user existed for the email and one was created.
	OutcomeCreated Outcome = "created"
	// OutcomeLinked means an existing user had no provider linkage and the
	// external id was written.
	OutcomeLinked Outcome = "linked"
	// OutcomeUnchanged means the user already carried a provider linkage and
	// the call was a pure read.
	OutcomeUnchanged Outcome = "unchanged"
)

// LinkResult is the tagged outcome of a provider login reconciliation.
type LinkResult struct {
	User    *auth.User
	Outcome Outcome
}

// Linker reconciles trusted provider profiles onto canonical user records,
// keyed by email. It never mutates role, names, or password state of an
// existing user; the only field it writes after creation is the provider
// linkage, and that at most once.
type Linker struct {
	users        auth.Users
	tokener      auth.TokenService
	logger       auth.Logger
	activitySink auth.ActivitySink
	storeTimeout time.Duration
}

// LinkerOption configures a Linker.
type LinkerOption func(*Linker)

// WithLogger overrides the default logger.
func WithLogger(logger auth.Logger) LinkerOption {
	return func(l *Linker) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithTokenService enables Login to mint session tokens.
func WithTokenService(tokener auth.TokenService) LinkerOption {
	return func(l *Linker) {
		l.tokener = tokener
	}
}

// WithActivitySink registers an audit sink for linker events.
func WithActivitySink(sink auth.ActivitySink) LinkerOption {
	return func(l *Linker) {
		l.activitySink = sink
	}
}

// WithStoreTimeout bounds every store access made by the linker.
func WithStoreTimeout(timeout time.Duration) LinkerOption {
	return func(l *Linker) {
		if timeout > 0 {
			l.storeTimeout = timeout
		}
	}
}

// NewLinker builds a Linker on top of the user store boundary.
func NewLinker(users auth.Users, opts ...LinkerOption) *Linker {
	l := &Linker{
		users:        users,
		logger:       auth.NewDefaultLogger(),
		storeTimeout: auth.DefaultStoreTimeout,
	}

	for _, opt := range opts {
		opt(l)
	}

	l.activitySink = auth.NormalizeActivitySink(l.activitySink)

	return l
}

// LinkOrCreate reconciles a provider profile onto a user record. It is
// idempotent: after the first call for a given profile, identical calls are
// read-only and return OutcomeUnchanged. Store failures surface as
// ErrStoreUnavailable; under normal operation the call does not fail.
func (l *Linker) LinkOrCreate(ctx context.Context, profile Profile) (*LinkResult, error) {
	if err := profile.Validate(); err != nil {
		l.logger.Debug("rejected incomplete provider profile: %s", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, ErrInvalidProfile.Message).
			WithTextCode(ErrInvalidProfile.TextCode).
			WithCode(ErrInvalidProfile.Code)
	}

	ctx, cancel := context.WithTimeout(ctx, l.storeTimeout)
	defer cancel()

	existing, err := l.users.GetByEmail(ctx, profile.Email)
	if err != nil {
		if !repository.IsRecordNotFound(err) {
			return nil, l.storeFailure(ctx, err, "provider login lookup failed")
		}
		return l.create(ctx, profile)
	}

	return l.link(ctx, profile, existing)
}

// Login runs LinkOrCreate and mints a session token for the resolved user.
func (l *Linker) Login(ctx context.Context, profile Profile) (string, *LinkResult, error) {
	if l.tokener == nil {
		return "", nil, ErrTokenUnavailable
	}

	result, err := l.LinkOrCreate(ctx, profile)
	if err != nil {
		return "", nil, err
	}

	token, err := l.tokener.Generate(auth.DeriveClaims(result.User))
	if err != nil {
		return "", nil, err
	}

	l.emit(ctx, auth.ActivityEventSocialLogin, result.User, profile, map[string]any{
		"outcome": string(result.Outcome),
	})

	return token, result, nil
}

func (l *Linker) create(ctx context.Context, profile Profile) (*LinkResult, error) {
	first, last := SplitDisplayName(profile.DisplayName)

	user := &auth.User{
		Email:          profile.Email,
		FirstName:      first,
		LastName:       last,
		AvatarURL:      profile.AvatarURL,
		Provider:       profile.Provider,
		ProviderUserID: profile.ProviderUserID,
		Role:           auth.RoleUser,
	}

	created, err := l.users.Create(ctx, user)
	if err != nil {
		if auth.IsDuplicateEmail(err) {
			// Lost a concurrent create for the same email. The uniqueness
			// constraint is the backstop; absorb the loss by linking to the
			// winner's record instead of surfacing an error.
			l.logger.Debug("concurrent create for %s, retrying as lookup", profile.Email)
			return l.relink(ctx, profile)
		}
		return nil, l.storeFailure(ctx, err, "provider login create failed")
	}

	l.emit(ctx, auth.ActivityEventUserCreated, created, profile, nil)

	return &LinkResult{User: created, Outcome: OutcomeCreated}, nil
}

func (l *Linker) relink(ctx context.Context, profile Profile) (*LinkResult, error) {
	existing, err := l.users.GetByEmail(ctx, profile.Email)
	if err != nil {
		return nil, l.storeFailure(ctx, err, "provider login retry lookup failed")
	}
	return l.link(ctx, profile, existing)
}

func (l *Linker) link(ctx context.Context, profile Profile, user *auth.User) (*LinkResult, error) {
	if user.HasProviderLink() {
		// First writer wins. A later login from a different provider for the
		// same email leaves the stored linkage untouched.
		if user.ProviderUserID != profile.ProviderUserID {
			l.logger.Debug("keeping existing %s linkage for %s", user.Provider, user.Email)
		}
		return &LinkResult{User: user, Outcome: OutcomeUnchanged}, nil
	}

	if err := l.users.LinkProvider(ctx, profile.Email, profile.Provider, profile.ProviderUserID); err != nil {
		return nil, l.storeFailure(ctx, err, "provider linkage update failed")
	}

	linked, err := l.users.GetByEmail(ctx, profile.Email)
	if err != nil {
		return nil, l.storeFailure(ctx, err, "provider linkage readback failed")
	}

	l.emit(ctx, auth.ActivityEventSocialLink, linked, profile, nil)

	return &LinkResult{User: linked, Outcome: OutcomeLinked}, nil
}

// storeFailure folds store and deadline errors into the uniform
// infrastructure failure so provider flows never leak store detail.
func (l *Linker) storeFailure(ctx context.Context, err error, msg string) error {
	if ctxErr := ctx.Err(); ctxErr != nil && (errors.Is(ctxErr, context.DeadlineExceeded) || errors.Is(ctxErr, context.Canceled)) {
		err = ctxErr
	}

	l.logger.Error("%s: %s", msg, err)

	return goerrors.Wrap(err, goerrors.CategoryInternal, msg).
		WithTextCode(auth.TextCodeStoreUnavailable).
		WithCode(goerrors.CodeInternal)
}

func (l *Linker) emit(ctx context.Context, eventType auth.ActivityEventType, user *auth.User, profile Profile, meta map[string]any) {
	if meta == nil {
		meta = map[string]any{}
	}
	meta["provider"] = profile.Provider

	event := auth.ActivityEvent{
		EventType:  eventType,
		Actor:      auth.ActorRef{ID: user.ID.String(), Type: "user"},
		UserID:     user.ID.String(),
		Metadata:   meta,
		OccurredAt: time.Now(),
	}

	if err := l.activitySink.Record(ctx, event); err != nil {
		l.logger.Warn("activity sink rejected %s event: %s", eventType, err)
	}
}

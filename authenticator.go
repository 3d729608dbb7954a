package auth

import (
	"context"
	"time"
)

// Auther wires the credential path end to end: verify credentials, derive
// claims, sign a session token. Token verification runs without the store.
type Auther struct {
	provider        IdentityProvider
	tokenService    TokenService
	tokenValidator  TokenValidator
	activitySink    ActivitySink
	claimsDecorator ClaimsDecorator
	logger          Logger
}

// NewAuthenticator returns a new Authenticator. The signing key is taken
// from opts exactly once; a missing or blank key fails construction with
// ErrSigningUnavailable.
func NewAuthenticator(provider IdentityProvider, opts Config) (*Auther, error) {
	tokenService, err := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)
	if err != nil {
		return nil, err
	}

	return &Auther{
		provider:        provider,
		tokenService:    tokenService,
		logger:          defLogger{},
		activitySink:    noopActivitySink{},
		claimsDecorator: noopClaimsDecorator{},
	}, nil
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithClaimsDecorator configures a ClaimsDecorator for enriching JWTs.
func (s *Auther) WithClaimsDecorator(decorator ClaimsDecorator) *Auther {
	s.claimsDecorator = normalizeClaimsDecorator(decorator)
	return s
}

// WithTokenValidator sets a custom token validator for externally issued tokens.
func (s *Auther) WithTokenValidator(validator TokenValidator) *Auther {
	s.tokenValidator = validator
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Authorize verifies an email/password pair and returns the resolved user.
// It is read-only apart from login attempt tracking.
func (s *Auther) Authorize(ctx context.Context, email, password string) (*User, error) {
	return s.provider.VerifyCredentials(ctx, email, password)
}

// Login authorizes the credentials and mints a session token for the
// resolved identity.
func (s *Auther) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Authorize(ctx, email, password)
	if err != nil {
		s.logger.Error("Login verify credentials error", "error", err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, ActorRef{Type: "unknown"}, "", map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return "", err
	}

	token, err := s.generateJWT(ctx, user)
	if err != nil {
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, ActorRef{Type: "user", ID: user.ID.String()}, user.ID.String(), map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return "", err
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, ActorRef{Type: "user", ID: user.ID.String()}, user.ID.String(), map[string]any{
		"email": email,
	})

	return token, nil
}

// SessionFromToken verifies a presented token and reconstructs the session
// view it carries. The user store is never consulted: role changes made
// after issuance only show up once the token is reissued.
func (s *Auther) SessionFromToken(raw string) (Session, error) {
	validator := s.tokenValidator
	if validator == nil {
		validator = s.tokenService
	}

	claims, err := validator.Validate(raw)
	if err != nil {
		s.logger.Debug("SessionFromToken validation failed", "error", err)
		return nil, ErrTokenInvalid
	}

	session, err := sessionFromAuthClaims(claims)
	if err != nil {
		s.logger.Error("SessionFromToken failed to create session from claims", "error", err)
		return nil, ErrTokenInvalid
	}

	return session, nil
}

// generateJWT derives the claim set for the user, lets the decorator enrich
// extension fields, and signs the result.
func (s *Auther) generateJWT(ctx context.Context, user *User) (string, error) {
	impl, ok := s.tokenService.(*TokenServiceImpl)
	if !ok {
		return s.tokenService.Generate(DeriveClaims(user))
	}

	claims := impl.newJWTClaims(DeriveClaims(user))
	snapshot := captureImmutableClaims(claims)

	decorator := normalizeClaimsDecorator(s.claimsDecorator)
	if err := decorator.Decorate(ctx, NewIdentityFromUser(user), claims); err != nil {
		s.logger.Error("claims decorator failed", "error", err)
		return "", err
	}

	if err := snapshot.validate(claims); err != nil {
		s.logger.Error("claims decorator mutated immutable claims", "error", err)
		return "", err
	}

	return s.tokenService.SignClaims(claims)
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, actor ActorRef, userID string, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType: eventType,
		Actor:     actor,
		UserID:    userID,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error: %v", err)
	}
}

var _ Authenticator = (*Auther)(nil)

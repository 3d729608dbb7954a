package auth

import "context"

// ClaimsDecorator can mutate allowed JWT claim extensions before a token is signed.
// Implementations may only touch extension fields (e.g. Metadata) and must
// leave registered/identity claims untouched so core auth semantics stay stable.
type ClaimsDecorator interface {
	Decorate(ctx context.Context, identity Identity, claims *JWTClaims) error
}

// ClaimsDecoratorFunc adapts a function into a ClaimsDecorator.
type ClaimsDecoratorFunc func(ctx context.Context, identity Identity, claims *JWTClaims) error

// Decorate satisfies the ClaimsDecorator interface.
func (f ClaimsDecoratorFunc) Decorate(ctx context.Context, identity Identity, claims *JWTClaims) error {
	if f == nil {
		return nil
	}
	return f(ctx, identity, claims)
}

type noopClaimsDecorator struct{}

func (noopClaimsDecorator) Decorate(context.Context, Identity, *JWTClaims) error {
	return nil
}

func normalizeClaimsDecorator(d ClaimsDecorator) ClaimsDecorator {
	if d == nil {
		return noopClaimsDecorator{}
	}
	return d
}

// immutableClaims snapshots the identity-bearing fields a decorator must not
// change.
type immutableClaims struct {
	subject  string
	uid      string
	role     string
	issuer   string
	audience []string
}

func captureImmutableClaims(claims *JWTClaims) immutableClaims {
	snapshot := immutableClaims{
		subject: claims.RegisteredClaims.Subject,
		uid:     claims.UID,
		role:    claims.UserRole,
		issuer:  claims.RegisteredClaims.Issuer,
	}
	snapshot.audience = append(snapshot.audience, claims.RegisteredClaims.Audience...)
	return snapshot
}

func (s immutableClaims) validate(claims *JWTClaims) error {
	if claims.RegisteredClaims.Subject != s.subject ||
		claims.UID != s.uid ||
		claims.UserRole != s.role ||
		claims.RegisteredClaims.Issuer != s.issuer {
		return ErrUnableToParseClaims
	}
	if len(claims.RegisteredClaims.Audience) != len(s.audience) {
		return ErrUnableToParseClaims
	}
	for i, aud := range s.audience {
		if claims.RegisteredClaims.Audience[i] != aud {
			return ErrUnableToParseClaims
		}
	}
	return nil
}

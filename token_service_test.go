package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-login"
)

var testSigningKey = []byte("test-signing-key-0123456789")

func newTestTokenService(t *testing.T) auth.TokenService {
	t.Helper()

	service, err := auth.NewTokenService(testSigningKey, 1, "go-login-tests", nil, nil)
	require.NoError(t, err)
	require.NotNil(t, service)

	return service
}

func TestNewTokenService(t *testing.T) {
	t.Run("fails without a signing key", func(t *testing.T) {
		service, err := auth.NewTokenService(nil, 1, "iss", nil, nil)
		assert.Nil(t, service)
		assert.ErrorIs(t, err, auth.ErrSigningUnavailable)
	})

	t.Run("fails with a blank signing key", func(t *testing.T) {
		service, err := auth.NewTokenService([]byte("   "), 1, "iss", nil, nil)
		assert.Nil(t, service)
		assert.ErrorIs(t, err, auth.ErrSigningUnavailable)
	})

	t.Run("fails with a non positive expiration", func(t *testing.T) {
		service, err := auth.NewTokenService(testSigningKey, 0, "iss", nil, nil)
		assert.Nil(t, service)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "expiration")
	})

	t.Run("creates a service with a valid key", func(t *testing.T) {
		service, err := auth.NewTokenService(testSigningKey, 24, "iss", jwt.ClaimStrings{"api"}, nil)
		assert.NoError(t, err)
		assert.NotNil(t, service)
	})
}

func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestTokenService(t)

	claims := auth.SessionClaims{
		SubjectID: "0d9b1c6e-7d3a-4a84-9a5d-2f4c8b1e6a70",
		Role:      auth.RoleAdmin,
	}

	token, err := service.Generate(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	recovered, err := service.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, claims.SubjectID, recovered.UserID())
	assert.Equal(t, string(claims.Role), recovered.Role())
	assert.True(t, recovered.HasRole(auth.RoleAdmin))
	assert.True(t, recovered.Expires().After(time.Now()))
	assert.False(t, recovered.IssuedAt().IsZero())

	jwtClaims, ok := recovered.(*auth.JWTClaims)
	require.True(t, ok)
	assert.Equal(t, claims, jwtClaims.SessionClaims())
}

func TestTokenService_ValidateUniformFailure(t *testing.T) {
	service := newTestTokenService(t)

	valid, err := service.Generate(auth.SessionClaims{SubjectID: "subject-1", Role: auth.RoleUser})
	require.NoError(t, err)

	now := time.Now()
	expired, err := service.SignClaims(&auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "go-login-tests",
			Subject:   "subject-1",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
		UID:      "subject-1",
		UserRole: auth.RoleUser,
	})
	require.NoError(t, err)

	otherService, err := auth.NewTokenService([]byte("a-different-signing-key"), 1, "go-login-tests", nil, nil)
	require.NoError(t, err)
	foreign, err := otherService.Generate(auth.SessionClaims{SubjectID: "subject-1", Role: auth.RoleUser})
	require.NoError(t, err)

	tampered := valid[:len(valid)-2] + "xx"

	cases := map[string]string{
		"expired token":       expired,
		"foreign signing key": foreign,
		"tampered signature":  tampered,
		"malformed token":     "not-a-token",
		"empty token":         "",
	}

	var failures []error
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			claims, err := service.Validate(token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, auth.ErrTokenInvalid)
			assert.True(t, auth.IsTokenInvalid(err))
			failures = append(failures, err)
		})
	}

	// Every rejection is the same error value. Callers cannot tell an
	// expired token from a corrupted one.
	for i := 1; i < len(failures); i++ {
		assert.Equal(t, failures[0], failures[i])
	}
}

func TestTokenService_ValidateEnforcesIssuer(t *testing.T) {
	service := newTestTokenService(t)

	otherIssuer, err := auth.NewTokenService(testSigningKey, 1, "someone-else", nil, nil)
	require.NoError(t, err)

	token, err := otherIssuer.Generate(auth.SessionClaims{SubjectID: "subject-1", Role: auth.RoleUser})
	require.NoError(t, err)

	claims, err := service.Validate(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestTokenService_ValidateEnforcesAudience(t *testing.T) {
	withAudience, err := auth.NewTokenService(testSigningKey, 1, "go-login-tests", jwt.ClaimStrings{"api"}, nil)
	require.NoError(t, err)

	noAudience := newTestTokenService(t)

	token, err := noAudience.Generate(auth.SessionClaims{SubjectID: "subject-1", Role: auth.RoleUser})
	require.NoError(t, err)

	claims, err := withAudience.Validate(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestTokenService_GeneratedTokensCarryID(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.Generate(auth.SessionClaims{SubjectID: "subject-1", Role: auth.RoleUser})
	require.NoError(t, err)

	claims, err := service.Validate(token)
	require.NoError(t, err)

	jwtClaims, ok := claims.(*auth.JWTClaims)
	require.True(t, ok)
	assert.NotEmpty(t, jwtClaims.RegisteredClaims.ID)
	assert.Equal(t, "go-login-tests", jwtClaims.RegisteredClaims.Issuer)
}

func TestTokenService_SignClaimsRejectsNil(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.SignClaims(nil)
	assert.Empty(t, token)
	assert.Error(t, err)
}

func TestTokenService_TokenLooksLikeJWT(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.Generate(auth.SessionClaims{SubjectID: "subject-1", Role: auth.RoleUser})
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)
}

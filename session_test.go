package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-login"
)

func TestSessionObject(t *testing.T) {
	id := uuid.New()
	issued := time.Now()
	expires := issued.Add(time.Hour)

	session := &auth.SessionObject{
		UserID:         id.String(),
		Role:           auth.RoleAdmin,
		Issuer:         "go-login-tests",
		IssuedAt:       &issued,
		ExpirationDate: &expires,
	}

	assert.Equal(t, id.String(), session.GetUserID())
	assert.Equal(t, auth.RoleAdmin, session.GetRole())
	assert.Equal(t, "go-login-tests", session.GetIssuer())
	assert.Equal(t, &issued, session.GetIssuedAt())
	assert.Equal(t, &expires, session.GetExpiration())

	parsed, err := session.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	t.Run("role defaults to user", func(t *testing.T) {
		s := &auth.SessionObject{}
		assert.Equal(t, auth.RoleUser, s.GetRole())
	})

	t.Run("invalid user id fails uuid parsing", func(t *testing.T) {
		s := &auth.SessionObject{UserID: "not-a-uuid"}
		_, err := s.GetUserUUID()
		assert.Error(t, err)
	})

	t.Run("role ordering", func(t *testing.T) {
		assert.True(t, session.IsAtLeast(auth.RoleUser))
		assert.True(t, session.IsAtLeast(auth.RoleAdmin))
		assert.False(t, session.IsAtLeast(auth.RoleOwner))
	})
}

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	auth "github.com/goliatone/go-login"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{auth.RoleUser, auth.RoleAdmin, auth.RoleOwner} {
		role, ok := auth.ParseRole(valid)
		assert.True(t, ok)
		assert.Equal(t, valid, role)
	}

	role, ok := auth.ParseRole("superuser")
	assert.False(t, ok)
	assert.Empty(t, role)
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, auth.IsValidRole(auth.RoleUser))
	assert.True(t, auth.IsValidRole(auth.RoleOwner))
	assert.False(t, auth.IsValidRole("superuser"))
	assert.False(t, auth.IsValidRole(""))
}

func TestRoleIsAtLeast(t *testing.T) {
	assert.True(t, auth.RoleIsAtLeast(auth.RoleOwner, auth.RoleAdmin))
	assert.True(t, auth.RoleIsAtLeast(auth.RoleAdmin, auth.RoleAdmin))
	assert.False(t, auth.RoleIsAtLeast(auth.RoleUser, auth.RoleAdmin))

	t.Run("unknown roles never qualify", func(t *testing.T) {
		assert.False(t, auth.RoleIsAtLeast("superuser", auth.RoleUser))
		assert.False(t, auth.RoleIsAtLeast(auth.RoleOwner, "superuser"))
	})
}

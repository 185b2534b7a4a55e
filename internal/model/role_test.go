package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for input, want := range map[string]Role{
		"USER":       RoleUser,
		"user":       RoleUser,
		"ROLE_USER":  RoleUser,
		"ADMIN":      RoleAdmin,
		"ROLE_ADMIN": RoleAdmin,
		" admin ":    RoleAdmin,
	} {
		got, err := ParseRole(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}

	_, err := ParseRole("SUPERUSER")
	assert.Error(t, err)
}

func TestRolesFor(t *testing.T) {
	admin := "admin@example.com"

	assert.Equal(t, []Role{RoleAdmin}, RolesFor("admin@example.com", admin))
	assert.Equal(t, []Role{RoleAdmin}, RolesFor("ADMIN@Example.com", admin))
	assert.Equal(t, []Role{RoleUser}, RolesFor("alice@example.com", admin))
	assert.Equal(t, []Role{RoleUser}, RolesFor("admin@example.com", ""))
}

func TestAuthority(t *testing.T) {
	assert.Equal(t, "ROLE_USER", RoleUser.Authority())
	assert.Equal(t, "ROLE_ADMIN", RoleAdmin.Authority())
}

package users_test

import (
	"testing"

	"github.com/jrsteele09/finvofy-auth/internal/utils"
	"github.com/jrsteele09/finvofy-auth/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := users.HashPassword("password123", bcrypt.MinCost)
	require.NoError(t, err)

	user := &users.User{PasswordHash: &hash}
	assert.True(t, user.CheckPassword("password123"))
	assert.False(t, user.CheckPassword("password124"))
}

func TestHashPasswordInvalidCostUsesDefault(t *testing.T) {
	hash, err := users.HashPassword("password123", 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, users.DefaultPasswordCost, cost)
}

func TestUserWithoutPasswordNeverMatches(t *testing.T) {
	assert.False(t, (&users.User{}).CheckPassword(""))
	assert.False(t, (&users.User{PasswordHash: utils.Ptr("")}).CheckPassword(""))
}

func TestProfile(t *testing.T) {
	user := &users.User{ID: "u1", Email: "a@b.com", Role: users.RoleOwner, TenantID: "t1"}
	assert.Equal(t, users.Profile{ID: "u1", Email: "a@b.com", Name: "", Role: users.RoleOwner, TenantID: "t1"}, user.Profile())

	user.Name = utils.Ptr("A")
	assert.Equal(t, "A", user.Profile().Name)
}

func TestParseRole(t *testing.T) {
	role, ok := users.ParseRole(" billing ")
	assert.True(t, ok)
	assert.Equal(t, users.RoleBilling, role)

	_, ok = users.ParseRole("superuser")
	assert.False(t, ok)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", users.NormalizeEmail("  A@B.com "))
}

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosko/internal/app/apptest"
	"kiosko/internal/core/apperror"
	"kiosko/internal/domain/auth"
)

func createUser(t *testing.T, shop *apptest.Shop, username string, role auth.Role) auth.User {
	t.Helper()
	u, err := shop.Auth.CreateUser(context.Background(), auth.CreateUserRequest{
		Username: username,
		Password: "correct horse",
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func TestCreateUser(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()

	u := createUser(t, shop, " Maria ", auth.RoleEmployee)
	assert.Equal(t, "maria", u.Username)
	assert.NotEqual(t, "correct horse", u.PasswordHash)

	_, err := shop.Auth.CreateUser(ctx, auth.CreateUserRequest{Username: "MARIA", Password: "another one", Role: auth.RoleOwner})
	assert.True(t, apperror.IsDuplicate(err), err)

	_, err = shop.Auth.CreateUser(ctx, auth.CreateUserRequest{Username: "short", Password: "1234", Role: auth.RoleOwner})
	assert.True(t, apperror.IsValidation(err))

	_, err = shop.Auth.CreateUser(ctx, auth.CreateUserRequest{Username: "boss", Password: "long enough", Role: "admin"})
	assert.True(t, apperror.IsValidation(err))
}

func TestLogin_IssuesTokenForRole(t *testing.T) {
	shop := apptest.New(t)
	createUser(t, shop, "owner", auth.RoleOwner)

	token, u, err := shop.Auth.Login(context.Background(), auth.Credentials{Username: "Owner", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, apptest.Now.Add(12*time.Hour), token.ExpiresAt)
	require.NotNil(t, u.LastLoginAt)

	uc, err := shop.JWT.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), uc.UserID)
	assert.Equal(t, string(auth.RoleOwner), uc.Role)
}

func TestLogin_LocksAfterRepeatedFailures(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()
	createUser(t, shop, "clerk", auth.RoleEmployee)

	for i := 0; i < 5; i++ {
		_, _, err := shop.Auth.Login(ctx, auth.Credentials{Username: "clerk", Password: "wrong"})
		require.True(t, apperror.IsUnauthorized(err), err)
	}

	_, _, err := shop.Auth.Login(ctx, auth.Credentials{Username: "clerk", Password: "correct horse"})
	assert.True(t, apperror.IsForbidden(err), "locked account rejects a correct password")

	shop.Clock.Advance(16 * time.Minute)
	_, _, err = shop.Auth.Login(ctx, auth.Credentials{Username: "clerk", Password: "correct horse"})
	assert.NoError(t, err)
}

func TestLogin_UnknownAndDisabled(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()

	_, _, err := shop.Auth.Login(ctx, auth.Credentials{Username: "ghost", Password: "correct horse"})
	assert.True(t, apperror.IsUnauthorized(err))

	u := createUser(t, shop, "leaver", auth.RoleEmployee)
	_, err = shop.Auth.DeactivateUser(ctx, u.ID)
	require.NoError(t, err)

	_, _, err = shop.Auth.Login(ctx, auth.Credentials{Username: "leaver", Password: "correct horse"})
	assert.True(t, apperror.IsForbidden(err))

	users, err := shop.Auth.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.False(t, users[0].Active)
}

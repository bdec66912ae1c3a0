package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masjidfinder_backend/internals/constants"
	"masjidfinder_backend/internals/features/users/auth/service"
	"masjidfinder_backend/internals/features/users/user/dto"
	userService "masjidfinder_backend/internals/features/users/user/service"
	"masjidfinder_backend/internals/helpers/apperror"
	"masjidfinder_backend/internals/testutil/memstore"
)

func newAuth(t *testing.T) (*service.AuthService, *service.TokenService, *memstore.BlacklistStore) {
	t.Helper()
	store := memstore.New()
	tokens, err := service.NewTokenService("test-secret")
	require.NoError(t, err)
	identity := userService.NewIdentityService(store.Repositories().Users, &service.PasswordService{Cost: 4})
	blacklist := store.Blacklist()
	return service.NewAuthService(identity, tokens, blacklist), tokens, blacklist
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	auth, tokens, _ := newAuth(t)

	alice, err := auth.Register(ctx, dto.RegisterRequest{UserName: "Alice", Email: "a@x.com", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleMainAdmin, alice.User.Role)

	id, err := tokens.Verify(alice.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.User.ID, id)

	bob, err := auth.Register(ctx, dto.RegisterRequest{UserName: "Bob", Email: "b@x.com", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleUser, bob.User.Role)

	res, err := auth.Login(ctx, dto.LoginRequest{Email: "b@x.com", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, bob.User.ID, res.User.ID)
}

func TestLoginFailureIsUniform(t *testing.T) {
	ctx := context.Background()
	auth, _, _ := newAuth(t)
	_, err := auth.Register(ctx, dto.RegisterRequest{UserName: "Alice", Email: "a@x.com", Password: "password"})
	require.NoError(t, err)

	_, wrongPw := auth.Login(ctx, dto.LoginRequest{Email: "a@x.com", Password: "wrong"})
	_, noUser := auth.Login(ctx, dto.LoginRequest{Email: "nobody@x.com", Password: "password"})

	require.Error(t, wrongPw)
	require.Error(t, noUser)
	assert.True(t, apperror.Is(wrongPw, apperror.KindAuthFailure))
	assert.Equal(t, wrongPw.Error(), noUser.Error())
}

func TestLogoutBlacklistsToken(t *testing.T) {
	ctx := context.Background()
	auth, _, blacklist := newAuth(t)
	res, err := auth.Register(ctx, dto.RegisterRequest{UserName: "Alice", Email: "a@x.com", Password: "password"})
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, res.Token))
	// idempotent
	require.NoError(t, auth.Logout(ctx, res.Token))

	hit, err := blacklist.Contains(ctx, res.Token)
	require.NoError(t, err)
	assert.True(t, hit)

	// token rusak / kosong: tidak ada yang perlu dicabut
	assert.NoError(t, auth.Logout(ctx, "garbage"))
	assert.NoError(t, auth.Logout(ctx, ""))
}

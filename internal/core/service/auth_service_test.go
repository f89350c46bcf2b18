package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

func newAuthService(t *testing.T) (*AuthService, *memStore) {
	t.Helper()
	store := newMemStore()
	return NewAuthService(store.Users(), fakeHasher{}, fakeTokens{}, zerolog.Nop()), store
}

func TestAuthService_Register(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "  Alice@Example.com ", Password: "pass123", FullName: "Alice",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "hashed:pass123", user.PasswordHash)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsAdmin)
}

func TestAuthService_Register_Rejections(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), ports.RegisterInput{Email: "BOB@example.com", Password: "other"})
	require.ErrorIs(t, err, domain.ErrUserExists)

	_, err = svc.Register(context.Background(), ports.RegisterInput{Email: " ", Password: "pw"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Register(context.Background(), ports.RegisterInput{Email: "x@example.com"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthService_CreateAdmin(t *testing.T) {
	svc, _ := newAuthService(t)

	admin, err := svc.CreateAdmin(context.Background(), ports.RegisterInput{Email: "root@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.True(t, admin.IsActive)
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newAuthService(t)
	user, err := svc.Register(context.Background(), ports.RegisterInput{Email: "carol@example.com", Password: "s3cret"})
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "Carol@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "token:"+user.ID, token)

	_, err = svc.Login(context.Background(), "carol@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "s3cret")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	svc, store := newAuthService(t)
	user, err := svc.Register(context.Background(), ports.RegisterInput{Email: "dave@example.com", Password: "pw"})
	require.NoError(t, err)
	deactivate(t, store, user.ID)

	_, err = svc.Login(context.Background(), "dave@example.com", "pw")
	require.ErrorIs(t, err, domain.ErrInactiveUser)
}

func TestAuthService_Authenticate(t *testing.T) {
	svc, store := newAuthService(t)
	user, err := svc.Register(context.Background(), ports.RegisterInput{Email: "erin@example.com", Password: "pw"})
	require.NoError(t, err)

	got, err := svc.Authenticate(context.Background(), "token:"+user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(context.Background(), "garbage")
	require.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = svc.Authenticate(context.Background(), "token:ghost")
	require.ErrorIs(t, err, domain.ErrInvalidToken)

	deactivate(t, store, user.ID)
	_, err = svc.Authenticate(context.Background(), "token:"+user.ID)
	require.ErrorIs(t, err, domain.ErrInactiveUser)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc, _ := newAuthService(t)
	user, err := svc.Register(context.Background(), ports.RegisterInput{Email: "frank@example.com", Password: "pw", FullName: "Frank"})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), ports.RegisterInput{Email: "taken@example.com", Password: "pw"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), user.ID, ports.UpdateProfileInput{
		Email: ptr("Frankie@Example.com"), Password: ptr("new"),
	})
	require.NoError(t, err)
	assert.Equal(t, "frankie@example.com", updated.Email)
	assert.Equal(t, "Frank", updated.FullName)
	assert.Equal(t, "hashed:new", updated.PasswordHash)

	// Tokens carry the user ID, so they survive an email change.
	got, err := svc.Authenticate(context.Background(), "token:"+user.ID)
	require.NoError(t, err)
	assert.Equal(t, "frankie@example.com", got.Email)

	_, err = svc.UpdateProfile(context.Background(), user.ID, ports.UpdateProfileInput{Email: ptr("taken@example.com")})
	require.ErrorIs(t, err, domain.ErrUserExists)

	_, err = svc.UpdateProfile(context.Background(), user.ID, ports.UpdateProfileInput{Password: ptr("")})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func deactivate(t *testing.T, store *memStore, id string) {
	t.Helper()
	store.mu.Lock()
	defer store.mu.Unlock()
	u := store.users[id]
	u.IsActive = false
	store.users[id] = u
}

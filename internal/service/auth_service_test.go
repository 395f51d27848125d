package service

import (
	"context"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/config"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (*AuthService, *testEnv, *domain.User) {
	t.Helper()
	env := newTestEnv(t)
	jwt := auth.NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-test-secret-test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "usalclinic-test",
	})

	hash, err := bcrypt.GenerateFromPassword([]byte("U@u123456"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &domain.User{
		ID:                 uuid.New(),
		Email:              "nina@clinic.com",
		FullName:           "Nina",
		PasswordHash:       string(hash),
		Role:               domain.RoleNurse,
		IsActive:           true,
		MustChangePassword: true,
	}
	require.NoError(t, env.users.Create(context.Background(), u))

	return NewAuthService(env.users, env.identities, jwt, env.audit, env.log), env, u
}

func TestLogin_Success(t *testing.T) {
	svc, _, u := newAuthService(t)

	pair, err := svc.Login(context.Background(), "  NINA@clinic.com ", "U@u123456", "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.MustChangePassword)
	assert.Empty(t, pair.RefreshToken)
	assert.Zero(t, u.FailedLoginCount)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), "ghost@clinic.com", "whatever", "10.0.0.2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_LocksAfterFiveFailures(t *testing.T) {
	svc, _, u := newAuthService(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := svc.Login(ctx, u.Email, "wrong", "10.0.0.2")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	assert.Nil(t, u.LockedUntil)

	_, err := svc.Login(ctx, u.Email, "wrong", "10.0.0.2")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.NotNil(t, u.LockedUntil)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *u.LockedUntil, time.Minute)

	_, err = svc.Login(ctx, u.Email, "U@u123456", "10.0.0.2")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestLogin_Inactive(t *testing.T) {
	svc, _, u := newAuthService(t)
	u.IsActive = false

	_, err := svc.Login(context.Background(), u.Email, "U@u123456", "10.0.0.2")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestChangePassword(t *testing.T) {
	svc, _, u := newAuthService(t)
	c := Caller{UserID: u.ID, Role: u.Role}
	ctx := context.Background()

	_, err := svc.ChangePassword(ctx, c, "wrong", "N3w!Passw0rd")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.ChangePassword(ctx, c, "U@u123456", "weak")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.ChangePassword(ctx, c, "U@u123456", "U@u123456")
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "new password must differ from the current one")

	pair, err := svc.ChangePassword(ctx, c, "U@u123456", "N3w!Passw0rd")
	require.NoError(t, err)
	assert.False(t, pair.MustChangePassword)
	assert.False(t, u.MustChangePassword)

	_, err = svc.Login(ctx, u.Email, "N3w!Passw0rd", "10.0.0.2")
	assert.NoError(t, err)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc, _, u := newAuthService(t)
	u.MustChangePassword = false

	pair, err := svc.Login(context.Background(), u.Email, "U@u123456", "10.0.0.2")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	refreshed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"rma-system/internal/dto"
	"rma-system/pkg/config"
	apperrors "rma-system/pkg/errors"
	"rma-system/pkg/service"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		MaxLoginAttempts: 3,
		LockoutDuration:  time.Minute * 15,
		ResetTokenTTL:    time.Minute * 15,
	}
}

func newTestAuthService(userRepo *fakeUserRepo, cache *fakeCacheRepo) AuthServiceInterface {
	jwtSvc := service.NewJWTService("test-secret", time.Hour, time.Hour*24, zap.NewNop())
	return NewAuthService(userRepo, &fakeTxManager{}, cache, jwtSvc, zap.NewNop(), testAuthConfig())
}

func seedUser(t *testing.T, userRepo *fakeUserRepo, email, password, role string) uint64 {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	id, err := userRepo.CreateUser(context.Background(), nil, email, string(hash))
	require.NoError(t, err)
	require.NoError(t, userRepo.CreateProfile(context.Background(), nil, id, "Test User", role))
	return id
}

func TestLoginSuccess(t *testing.T) {
	userRepo := newFakeUserRepo()
	cache := newFakeCacheRepo()
	id := seedUser(t, userRepo, "tech@example.com", "hunter2secret", "user")
	svc := newTestAuthService(userRepo, cache)

	res, err := svc.Login(context.Background(), dto.LoginDTO{Email: "tech@example.com", Password: "hunter2secret"})
	require.NoError(t, err)

	assert.Equal(t, id, res.User.ID)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotEmpty(t, res.Tokens.RefreshToken)

	// the refresh token becomes the stored session
	stored, err := cache.Get(context.Background(), fmt.Sprintf("session:%d", id))
	require.NoError(t, err)
	assert.Equal(t, res.Tokens.RefreshToken, stored)
}

func TestLoginWrongPassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	cache := newFakeCacheRepo()
	seedUser(t, userRepo, "tech@example.com", "hunter2secret", "user")
	svc := newTestAuthService(userRepo, cache)

	_, err := svc.Login(context.Background(), dto.LoginDTO{Email: "tech@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	userRepo := newFakeUserRepo()
	cache := newFakeCacheRepo()
	seedUser(t, userRepo, "tech@example.com", "hunter2secret", "user")
	svc := newTestAuthService(userRepo, cache)

	for i := 0; i < 3; i++ {
		_, err := svc.Login(context.Background(), dto.LoginDTO{Email: "tech@example.com", Password: "wrong"})
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	}

	// even the right password is rejected once the counter hits the limit
	_, err := svc.Login(context.Background(), dto.LoginDTO{Email: "tech@example.com", Password: "hunter2secret"})
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 429, httpErr.Code)
}

func TestLoginSuccessResetsAttemptCounter(t *testing.T) {
	userRepo := newFakeUserRepo()
	cache := newFakeCacheRepo()
	seedUser(t, userRepo, "tech@example.com", "hunter2secret", "user")
	svc := newTestAuthService(userRepo, cache)

	for i := 0; i < 2; i++ {
		_, _ = svc.Login(context.Background(), dto.LoginDTO{Email: "tech@example.com", Password: "wrong"})
	}
	_, err := svc.Login(context.Background(), dto.LoginDTO{Email: "tech@example.com", Password: "hunter2secret"})
	require.NoError(t, err)

	_, err = cache.Get(context.Background(), "login_attempts:tech@example.com")
	assert.Error(t, err, "counter should be cleared after a successful login")
}

func TestLoginDeactivatedAccount(t *testing.T) {
	userRepo := newFakeUserRepo()
	cache := newFakeCacheRepo()
	id := seedUser(t, userRepo, "tech@example.com", "hunter2secret", "user")
	u := userRepo.users[id]
	u.IsActive.Bool = false
	userRepo.users[id] = u
	svc := newTestAuthService(userRepo, cache)

	_, err := svc.Login(context.Background(), dto.LoginDTO{Email: "tech@example.com", Password: "hunter2secret"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestRegisterAssignsDefaultRole(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo, newFakeCacheRepo())

	res, err := svc.Register(context.Background(), dto.RegisterDTO{
		Email:    "new@example.com",
		Password: "longenoughpw",
		FullName: "New Person",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", res.User.Role)
	assert.NotEmpty(t, res.Tokens.AccessToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	userRepo := newFakeUserRepo()
	cache := newFakeCacheRepo()
	seedUser(t, userRepo, "tech@example.com", "hunter2secret", "user")
	svc := newTestAuthService(userRepo, cache)

	res, err := svc.Login(context.Background(), dto.LoginDTO{Email: "tech@example.com", Password: "hunter2secret"})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), res.Tokens.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenIsNotRefresh)
}

func TestRefreshRotatesSession(t *testing.T) {
	userRepo := newFakeUserRepo()
	cache := newFakeCacheRepo()
	id := seedUser(t, userRepo, "tech@example.com", "hunter2secret", "user")
	svc := newTestAuthService(userRepo, cache)

	res, err := svc.Login(context.Background(), dto.LoginDTO{Email: "tech@example.com", Password: "hunter2secret"})
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), res.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	stored, err := cache.Get(context.Background(), fmt.Sprintf("session:%d", id))
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, stored, "stored session follows the newest refresh token")
}

func TestLogoutInvalidatesRefresh(t *testing.T) {
	userRepo := newFakeUserRepo()
	cache := newFakeCacheRepo()
	id := seedUser(t, userRepo, "tech@example.com", "hunter2secret", "user")
	svc := newTestAuthService(userRepo, cache)

	res, err := svc.Login(context.Background(), dto.LoginDTO{Email: "tech@example.com", Password: "hunter2secret"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), id))

	_, err = svc.Refresh(context.Background(), res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestPasswordResetFlow(t *testing.T) {
	userRepo := newFakeUserRepo()
	cache := newFakeCacheRepo()
	id := seedUser(t, userRepo, "tech@example.com", "hunter2secret", "user")
	svc := newTestAuthService(userRepo, cache)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), dto.ForgotPasswordDTO{Email: "tech@example.com"}))

	// dig the issued token out of the cache
	var token string
	for key := range cache.values {
		if len(key) > len("reset_token:") && key[:len("reset_token:")] == "reset_token:" {
			token = key[len("reset_token:"):]
		}
	}
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(context.Background(), dto.ResetPasswordDTO{Token: token, NewPassword: "brandnewpassw"}))

	_, err := svc.Login(context.Background(), dto.LoginDTO{Email: "tech@example.com", Password: "brandnewpassw"})
	require.NoError(t, err)
	assert.NotEmpty(t, userRepo.passwords[id])
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeCacheRepo())
	err := svc.RequestPasswordReset(context.Background(), dto.ForgotPasswordDTO{Email: "nobody@example.com"})
	assert.NoError(t, err)
}

func TestResetPasswordBadToken(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeCacheRepo())
	err := svc.ResetPassword(context.Background(), dto.ResetPasswordDTO{Token: "bogus", NewPassword: "brandnewpassw"})
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

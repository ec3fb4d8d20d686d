package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"rma-system/internal/dto"
	"rma-system/pkg/constants"
	apperrors "rma-system/pkg/errors"
)

func newTestUserService(userRepo *fakeUserRepo) UserServiceInterface {
	return NewUserService(userRepo, &fakeTxManager{}, zap.NewNop())
}

func TestCreateUserStoresHashedPassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestUserService(userRepo)

	user, err := svc.CreateUser(context.Background(), dto.CreateUserDTO{
		Email:    "tech@example.com",
		Password: "hunter2secret",
		FullName: "Tech Person",
		Role:     constants.RoleUser,
	})
	require.NoError(t, err)

	assert.Equal(t, "tech@example.com", user.Email)
	assert.Equal(t, constants.RoleUser, user.Role)
	assert.True(t, user.IsActive)

	stored := userRepo.users[user.ID]
	assert.NotEqual(t, "hunter2secret", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter2secret")))
}

func TestToggleRoleFlipsBothWays(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestUserService(userRepo)

	created, err := svc.CreateUser(context.Background(), dto.CreateUserDTO{
		Email: "tech@example.com", Password: "hunter2secret", FullName: "Tech", Role: constants.RoleUser,
	})
	require.NoError(t, err)

	promoted, err := svc.ToggleRole(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAdmin, promoted.Role)

	demoted, err := svc.ToggleRole(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleUser, demoted.Role)
}

func TestDeleteUserRejectsSelf(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestUserService(userRepo)

	created, err := svc.CreateUser(context.Background(), dto.CreateUserDTO{
		Email: "admin@example.com", Password: "hunter2secret", FullName: "Admin", Role: constants.RoleAdmin,
	})
	require.NoError(t, err)

	err = svc.DeleteUser(context.Background(), created.ID, created.ID)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
	assert.Empty(t, userRepo.deleted)
}

func TestDeleteUserByAnotherAdmin(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestUserService(userRepo)

	admin, err := svc.CreateUser(context.Background(), dto.CreateUserDTO{
		Email: "admin@example.com", Password: "hunter2secret", FullName: "Admin", Role: constants.RoleAdmin,
	})
	require.NoError(t, err)
	target, err := svc.CreateUser(context.Background(), dto.CreateUserDTO{
		Email: "tech@example.com", Password: "hunter2secret", FullName: "Tech", Role: constants.RoleUser,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), admin.ID, target.ID))
	assert.Equal(t, []uint64{target.ID}, userRepo.deleted)
}

package services

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"rma-system/internal/dto"
	"rma-system/internal/repositories"
	"rma-system/pkg/constants"
	apperrors "rma-system/pkg/errors"
	"rma-system/pkg/types"
	"rma-system/pkg/utils"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error)
	ToggleRole(ctx context.Context, id uint64) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, actorID, id uint64) error
}

type UserService struct {
	userRepo  repositories.UserRepositoryInterface
	txManager repositories.TxManagerInterface
	logger    *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{userRepo: userRepo, txManager: txManager, logger: logger}
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error) {
	users, total, err := s.userRepo.GetUsers(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		out = append(out, userToDTO(&users[i]))
	}
	return out, total, nil
}

// CreateUser provisions the account and its profile atomically.
func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var userID uint64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.userRepo.CreateUser(ctx, tx, payload.Email, string(hash))
		if err != nil {
			return err
		}
		userID = id
		return s.userRepo.CreateProfile(ctx, tx, id, payload.FullName, payload.Role)
	})
	if err != nil {
		s.logger.Error("user creation failed", zap.String("email", payload.Email), zap.Error(err))
		return nil, err
	}

	user, err := s.userRepo.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.Uint64("userID", userID), zap.String("role", payload.Role))
	userDTO := userToDTO(user)
	return &userDTO, nil
}

// ToggleRole flips the two-valued role field on the profile.
func (s *UserService) ToggleRole(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}

	next := constants.RoleAdmin
	if utils.NullStringToString(user.Role) == constants.RoleAdmin {
		next = constants.RoleUser
	}

	if err := s.userRepo.UpdateRole(ctx, id, next); err != nil {
		return nil, err
	}

	s.logger.Info("user role toggled", zap.Uint64("userID", id), zap.String("role", next))
	return s.me(ctx, id)
}

func (s *UserService) DeleteUser(ctx context.Context, actorID, id uint64) error {
	if actorID == id {
		return apperrors.NewHttpError(http.StatusBadRequest, "you cannot delete your own account", nil, nil)
	}
	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Uint64("userID", id), zap.Uint64("actorID", actorID))
	return nil
}

func (s *UserService) me(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	userDTO := userToDTO(user)
	return &userDTO, nil
}

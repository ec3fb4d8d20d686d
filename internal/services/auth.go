package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"rma-system/internal/dto"
	"rma-system/internal/entities"
	"rma-system/internal/repositories"
	"rma-system/pkg/config"
	apperrors "rma-system/pkg/errors"
	"rma-system/pkg/service"
	"rma-system/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	Register(ctx context.Context, payload dto.RegisterDTO) (*dto.AuthResponseDTO, error)
	RequestPasswordReset(ctx context.Context, payload dto.ForgotPasswordDTO) error
	ResetPassword(ctx context.Context, payload dto.ResetPasswordDTO) error
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error)
	Logout(ctx context.Context, userID uint64) error
	Me(ctx context.Context, userID uint64) (*dto.UserDTO, error)
}

type AuthService struct {
	userRepo  repositories.UserRepositoryInterface
	txManager repositories.TxManagerInterface
	cacheRepo repositories.CacheRepositoryInterface
	jwtSvc    service.JWTService
	logger    *zap.Logger
	cfg       *config.AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	txManager repositories.TxManagerInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtSvc service.JWTService,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		userRepo:  userRepo,
		txManager: txManager,
		cacheRepo: cacheRepo,
		jwtSvc:    jwtSvc,
		logger:    logger,
		cfg:       cfg,
	}
}

func loginAttemptsKey(email string) string { return fmt.Sprintf("login_attempts:%s", email) }
func resetTokenKey(token string) string    { return fmt.Sprintf("reset_token:%s", token) }
func sessionKey(userID uint64) string      { return fmt.Sprintf("session:%d", userID) }

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	logger := s.logger.With(zap.String("email", payload.Email))

	attemptsStr, _ := s.cacheRepo.Get(ctx, loginAttemptsKey(payload.Email))
	if attempts := parseAttempts(attemptsStr); attempts >= s.cfg.MaxLoginAttempts {
		logger.Warn("login locked out")
		return nil, apperrors.NewHttpError(http.StatusTooManyRequests,
			fmt.Sprintf("too many failed attempts, try again in %.0f minutes", s.cfg.LockoutDuration.Minutes()), nil, nil)
	}

	user, err := s.userRepo.FindByEmail(ctx, payload.Email)
	if err != nil {
		logger.Warn("login for unknown user")
		s.recordFailedAttempt(ctx, payload.Email)
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		logger.Warn("login with wrong password", zap.Uint64("userID", user.ID))
		s.recordFailedAttempt(ctx, payload.Email)
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.IsActive.Valid && !user.IsActive.Bool {
		logger.Warn("login for deactivated account", zap.Uint64("userID", user.ID))
		return nil, apperrors.ErrForbidden
	}

	_ = s.cacheRepo.Del(ctx, loginAttemptsKey(payload.Email))

	tokens, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.Info("user logged in", zap.Uint64("userID", user.ID))
	return &dto.AuthResponseDTO{User: userToDTO(user), Tokens: *tokens}, nil
}

func (s *AuthService) Register(ctx context.Context, payload dto.RegisterDTO) (*dto.AuthResponseDTO, error) {
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
		// self-service sign-ups always get the default role
		return s.userRepo.CreateProfile(ctx, tx, id, payload.FullName, "user")
	})
	if err != nil {
		s.logger.Warn("registration failed", zap.String("email", payload.Email), zap.Error(err))
		return nil, err
	}

	user, err := s.userRepo.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tokens, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint64("userID", userID))
	return &dto.AuthResponseDTO{User: userToDTO(user), Tokens: *tokens}, nil
}

// RequestPasswordReset never tells the caller whether the address exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, payload dto.ForgotPasswordDTO) error {
	user, err := s.userRepo.FindByEmail(ctx, payload.Email)
	if err != nil || user == nil {
		s.logger.Warn("password reset for unknown email")
		return nil
	}

	resetToken := uuid.New().String()
	if err := s.cacheRepo.Set(ctx, resetTokenKey(resetToken), user.ID, s.cfg.ResetTokenTTL); err != nil {
		return err
	}

	// TODO: deliver via the mail gateway once one is provisioned
	s.logger.Warn("password reset token issued",
		zap.Uint64("userID", user.ID), zap.String("reset_token", resetToken))
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, payload dto.ResetPasswordDTO) error {
	userIDStr, err := s.cacheRepo.Get(ctx, resetTokenKey(payload.Token))
	if err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "invalid or expired reset token", err, nil)
	}

	var userID uint64
	if _, err := fmt.Sscanf(userIDStr, "%d", &userID); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "invalid or expired reset token", err, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	_ = s.cacheRepo.Del(ctx, resetTokenKey(payload.Token), sessionKey(userID))
	s.logger.Info("password reset", zap.Uint64("userID", userID))
	return nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtSvc.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	stored, err := s.cacheRepo.Get(ctx, sessionKey(claims.UserID))
	if err != nil || stored != refreshToken {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindUser(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	return s.issueSession(ctx, user)
}

// Logout tears the session down: the stored refresh token is dropped so it
// can no longer be exchanged.
func (s *AuthService) Logout(ctx context.Context, userID uint64) error {
	if err := s.cacheRepo.Del(ctx, sessionKey(userID)); err != nil {
		return err
	}
	s.logger.Info("user logged out", zap.Uint64("userID", userID))
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	userDTO := userToDTO(user)
	return &userDTO, nil
}

func (s *AuthService) issueSession(ctx context.Context, user *entities.User) (*dto.TokenPairDTO, error) {
	access, refresh, err := s.jwtSvc.GenerateTokens(user.ID, utils.NullStringToString(user.Role))
	if err != nil {
		return nil, err
	}
	if err := s.cacheRepo.Set(ctx, sessionKey(user.ID), refresh, s.jwtSvc.GetRefreshTokenTTL()); err != nil {
		return nil, err
	}
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) recordFailedAttempt(ctx context.Context, email string) {
	key := loginAttemptsKey(email)
	if attempts, err := s.cacheRepo.Incr(ctx, key); err == nil && attempts == 1 {
		_, _ = s.cacheRepo.Expire(ctx, key, s.cfg.LockoutDuration)
	}
}

func parseAttempts(s string) int {
	var n int
	if s == "" {
		return 0
	}
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0
	}
	return n
}

func userToDTO(user *entities.User) dto.UserDTO {
	role := utils.NullStringToString(user.Role)
	if role == "" {
		role = "user"
	}
	return dto.UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  utils.NullStringToString(user.FullName),
		Role:      role,
		IsActive:  !user.IsActive.Valid || user.IsActive.Bool,
		CreatedAt: user.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		UpdatedAt: utils.NullTimeToEmptyString(user.UpdatedAt),
	}
}

package middleware

import (
	"context"
	"strings"

	"rma-system/pkg/constants"
	"rma-system/pkg/contextkeys"
	apperrors "rma-system/pkg/errors"
	"rma-system/pkg/service"
	"rma-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

// Auth validates the bearer token and stores the user identity in the request
// context for the handlers downstream.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("empty Authorization header")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("malformed Authorization header")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		// refresh tokens are only good for /auth/refresh
		if claims.IsRefreshToken {
			m.logger.Warn("refresh token used for access", zap.Uint64("userID", claims.UserID))
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		ctx := c.Request().Context()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, contextkeys.UserRoleKey, claims.Role)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// RequireAdmin gates the user-administration endpoints.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, err := utils.GetUserRoleFromCtx(c.Request().Context())
		if err != nil {
			return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
		}
		if role != constants.RoleAdmin {
			return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
		}
		return next(c)
	}
}

package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rma-system/internal/controllers"
	"rma-system/internal/services"
)

func runAuthRouter(
	api *echo.Group,
	secureGroup *echo.Group,
	authService services.AuthServiceInterface,
	logger *zap.Logger,
) {
	authCtrl := controllers.NewAuthController(authService, logger)

	api.POST("/auth/login", authCtrl.Login)
	api.POST("/auth/register", authCtrl.Register)
	api.POST("/auth/forgot-password", authCtrl.ForgotPassword)
	api.POST("/auth/reset-password", authCtrl.ResetPassword)
	api.POST("/auth/refresh", authCtrl.Refresh)

	secureGroup.GET("/auth/me", authCtrl.Me)
	secureGroup.POST("/auth/logout", authCtrl.Logout)
}

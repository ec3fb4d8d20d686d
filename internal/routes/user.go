package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rma-system/internal/controllers"
	"rma-system/internal/services"
)

func runUserRouter(adminGroup *echo.Group, userService services.UserServiceInterface, logger *zap.Logger) {
	userCtrl := controllers.NewUserController(userService, logger)

	adminGroup.GET("/users", userCtrl.GetUsers)
	adminGroup.POST("/users", userCtrl.CreateUser)
	adminGroup.PATCH("/users/:id/role", userCtrl.ToggleRole)
	adminGroup.DELETE("/users/:id", userCtrl.DeleteUser)
}

package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rma-system/internal/controllers"
	"rma-system/internal/services"
)

func runManualRouter(secureGroup *echo.Group, manualService services.ManualServiceInterface, logger *zap.Logger) {
	manualCtrl := controllers.NewManualController(manualService, logger)

	secureGroup.GET("/manuals", manualCtrl.GetManuals)
	secureGroup.POST("/manuals", manualCtrl.Upload)
	secureGroup.POST("/manuals/folders", manualCtrl.CreateFolder)
	secureGroup.GET("/manuals/:id/download", manualCtrl.Download)
	secureGroup.DELETE("/manuals/:id", manualCtrl.Delete)
}

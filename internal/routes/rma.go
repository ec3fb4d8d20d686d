package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rma-system/internal/controllers"
	"rma-system/internal/services"
)

func runRMARouter(secureGroup *echo.Group, rmaService services.RMAServiceInterface, logger *zap.Logger) {
	rmaCtrl := controllers.NewRMAController(rmaService, logger)

	secureGroup.GET("/rmas", rmaCtrl.GetRMAs)
	secureGroup.GET("/rmas/:id", rmaCtrl.FindRMA)
	secureGroup.POST("/rmas", rmaCtrl.CreateRMA)
	secureGroup.PUT("/rmas/:id", rmaCtrl.UpdateRMA)
	secureGroup.PATCH("/rmas/:id/status", rmaCtrl.ToggleStatus)
	secureGroup.DELETE("/rmas/:id", rmaCtrl.DeleteRMA)
	secureGroup.GET("/rmas/:id/attachments/:attachmentID/download", rmaCtrl.DownloadAttachment)
}

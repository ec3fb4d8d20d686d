package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rma-system/internal/repositories"
	"rma-system/internal/services"
	"rma-system/pkg/config"
	"rma-system/pkg/middleware"
	"rma-system/pkg/objectstorage"
	"rma-system/pkg/service"
)

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	storage objectstorage.ObjectStorage,
	jwtSvc service.JWTService,
	logger *zap.Logger,
	cfg *config.Config,
) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	txManager := repositories.NewTxManager(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	userRepo := repositories.NewUserRepository(dbConn)
	rmaRepo := repositories.NewRMARepository(dbConn)
	attachRepo := repositories.NewAttachmentRepository(dbConn)
	manualRepo := repositories.NewManualRepository(dbConn)
	dashboardRepo := repositories.NewDashboardRepository(dbConn)

	authService := services.NewAuthService(userRepo, txManager, cacheRepo, jwtSvc, logger, &cfg.Auth)
	userService := services.NewUserService(userRepo, txManager, logger)
	rmaService := services.NewRMAService(rmaRepo, attachRepo, storage, cfg.Minio.AttachmentsBucket, logger)
	manualService := services.NewManualService(manualRepo, storage, cfg.Minio.ManualsBucket, logger)
	dashboardService := services.NewDashboardService(dashboardRepo, manualRepo, logger)
	reportService := services.NewReportService(rmaRepo)

	secureGroup := api.Group("", authMW.Auth)
	adminGroup := secureGroup.Group("", authMW.RequireAdmin)

	runAuthRouter(api, secureGroup, authService, logger)
	runRMARouter(secureGroup, rmaService, logger)
	runManualRouter(secureGroup, manualService, logger)
	runUserRouter(adminGroup, userService, logger)
	runDashboardRouter(secureGroup, dashboardService, logger)
	runReportRouter(secureGroup, reportService, logger)
}

package main

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"rma-system/internal/routes"
	"rma-system/pkg/config"
	"rma-system/pkg/database/postgresql"
	apperrors "rma-system/pkg/errors"
	applogger "rma-system/pkg/logger"
	"rma-system/pkg/objectstorage"
	"rma-system/pkg/service"
	"rma-system/pkg/utils"
)

func main() {
	e := echo.New()
	logger := applogger.NewLogger()
	cfg := config.New()

	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "internal server error", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Disposition"},
	}))

	e.Validator = utils.NewValidator(validator.New())

	ctx := context.Background()

	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer dbConn.Close()

	if err := postgresql.Migrate(cfg.Postgres.DSN); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	storage, err := objectstorage.New(cfg.Minio)
	if err != nil {
		logger.Fatal("failed to create object storage client", zap.Error(err))
	}
	if err := storage.EnsureBuckets(ctx, cfg.Minio.AttachmentsBucket, cfg.Minio.ManualsBucket); err != nil {
		logger.Fatal("failed to provision buckets", zap.Error(err))
	}

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, logger)

	routes.InitRouter(e, dbConn, redisClient, storage, jwtSvc, logger, cfg)

	logger.Info("server listening", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

package controllers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rma-system/internal/dto"
	"rma-system/internal/services"
	apperrors "rma-system/pkg/errors"
	"rma-system/pkg/utils"
)

type ManualController struct {
	manualService services.ManualServiceInterface
	logger        *zap.Logger
}

func NewManualController(manualService services.ManualServiceInterface, logger *zap.Logger) *ManualController {
	return &ManualController{manualService: manualService, logger: logger}
}

func (c *ManualController) GetManuals(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	folderPath := ctx.QueryParam("folder")

	list, total, err := c.manualService.GetManuals(reqCtx, folderPath, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "manuals loaded", http.StatusOK, total)
}

// Upload accepts multipart form data: "title" and "description" as plain
// fields, the document as a single "file" part, the target folder in the
// "folder" query parameter.
func (c *ManualController) Upload(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	payload := dto.UploadManualDTO{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "'file' part is required", err, nil),
			c.logger,
		)
	}

	userID, err := utils.GetUserIDFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	manual, err := c.manualService.Upload(reqCtx, userID, ctx.QueryParam("folder"), payload, file)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, manual, "manual uploaded", http.StatusCreated)
}

func (c *ManualController) CreateFolder(ctx echo.Context) error {
	var payload dto.CreateFolderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	path, err := c.manualService.CreateFolder(ctx.Request().Context(), ctx.QueryParam("folder"), payload.Name)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]string{"folder_path": path}, "folder created", http.StatusCreated)
}

func (c *ManualController) Download(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reader, manual, err := c.manualService.Download(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer reader.Close()

	ctx.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", manual.Name))
	return ctx.Stream(http.StatusOK, "application/octet-stream", reader)
}

func (c *ManualController) Delete(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.manualService.Delete(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "manual deleted", http.StatusOK)
}

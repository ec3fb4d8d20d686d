package controllers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rma-system/internal/dto"
	"rma-system/internal/services"
	apperrors "rma-system/pkg/errors"
	"rma-system/pkg/utils"
)

type RMAController struct {
	rmaService services.RMAServiceInterface
	logger     *zap.Logger
}

func NewRMAController(rmaService services.RMAServiceInterface, logger *zap.Logger) *RMAController {
	return &RMAController{rmaService: rmaService, logger: logger}
}

func (c *RMAController) GetRMAs(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	list, total, err := c.rmaService.GetRMAs(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "RMA list loaded", http.StatusOK, total)
}

func (c *RMAController) FindRMA(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	rma, err := c.rmaService.FindRMA(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, rma, "RMA found", http.StatusOK)
}

// CreateRMA accepts multipart form data: the record in a JSON "data" field
// plus any number of "files" parts.
func (c *RMAController) CreateRMA(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	dataString := ctx.FormValue("data")
	if dataString == "" {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "'data' field with JSON payload is required", apperrors.ErrBadRequest, nil),
			c.logger,
		)
	}

	var payload dto.CreateRMADTO
	if err := json.Unmarshal([]byte(dataString), &payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid JSON in 'data'", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	userID, err := utils.GetUserIDFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	files, err := formFiles(ctx, "files")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	rma, err := c.rmaService.CreateRMA(reqCtx, userID, payload, files)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, rma, "RMA created", http.StatusCreated)
}

func (c *RMAController) UpdateRMA(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	dataString := ctx.FormValue("data")
	if dataString == "" {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "'data' field with JSON payload is required", apperrors.ErrBadRequest, nil),
			c.logger,
		)
	}

	var payload dto.UpdateRMADTO
	if err := json.Unmarshal([]byte(dataString), &payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid JSON in 'data'", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	userID, err := utils.GetUserIDFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	files, err := formFiles(ctx, "files")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	rma, err := c.rmaService.UpdateRMA(reqCtx, userID, id, payload, files)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, rma, "RMA updated", http.StatusOK)
}

func (c *RMAController) ToggleStatus(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	rma, err := c.rmaService.ToggleStatus(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, rma, "RMA status toggled", http.StatusOK)
}

func (c *RMAController) DeleteRMA(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.rmaService.DeleteRMA(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "RMA deleted", http.StatusOK)
}

func (c *RMAController) DownloadAttachment(ctx echo.Context) error {
	rmaID, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	attID, err := parseIDParam(ctx, "attachmentID")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reader, attachment, err := c.rmaService.DownloadAttachment(ctx.Request().Context(), rmaID, attID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer reader.Close()

	ctx.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Name))
	return ctx.Stream(http.StatusOK, "application/octet-stream", reader)
}

// formFiles returns the uploaded parts for the given field, or nil when the
// request carries no multipart form at all.
func formFiles(ctx echo.Context, field string) ([]*multipart.FileHeader, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		if err == http.ErrNotMultipart || err == http.ErrMissingBoundary {
			return nil, nil
		}
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "invalid multipart form", err, nil)
	}
	return form.File[field], nil
}

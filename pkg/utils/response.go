package utils

import (
	"errors"
	"net/http"

	apperrors "rma-system/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HttpResponse struct {
	Status     bool        `json:"status"`
	Body       interface{} `json:"body,omitempty"`
	Message    string      `json:"message"`
	TotalCount *uint64     `json:"total_count,omitempty"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	if len(total) > 0 {
		response.TotalCount = &total[0]
	}
	return ctx.JSON(code, response)
}

// sentinelStatusCodes maps shared sentinel errors onto HTTP statuses. Anything
// not in the map and not an HttpError falls through to 500 with a generic
// message, so internals never leak to the client.
var sentinelStatusCodes = map[error]int{
	apperrors.ErrNotFound:            http.StatusNotFound,
	apperrors.ErrConflict:            http.StatusConflict,
	apperrors.ErrBadRequest:          http.StatusBadRequest,
	apperrors.ErrUnauthorized:        http.StatusUnauthorized,
	apperrors.ErrForbidden:           http.StatusForbidden,
	apperrors.ErrInvalidCredentials:  http.StatusUnauthorized,
	apperrors.ErrEmptyAuthHeader:     http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:   http.StatusUnauthorized,
	apperrors.ErrInvalidToken:        http.StatusUnauthorized,
	apperrors.ErrTokenExpired:        http.StatusUnauthorized,
	apperrors.ErrTokenNotYetValid:    http.StatusUnauthorized,
	apperrors.ErrTokenIsNotRefresh:   http.StatusUnauthorized,
	apperrors.ErrTokenIsNotAccess:    http.StatusUnauthorized,
	apperrors.ErrInvalidSigningMethod: http.StatusUnauthorized,
}

func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code := http.StatusInternalServerError
	message := "internal server error"

	var httpErr *apperrors.HttpError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		message = httpErr.Message
		logger.Error("request failed",
			zap.Int("code", httpErr.Code),
			zap.Error(err),
			zap.Any("context", httpErr.Context),
		)
	case errors.As(err, &validationErrs):
		code = http.StatusBadRequest
		message = "validation failed"
		logger.Warn("validation failed", zap.Error(err))
	default:
		for sentinel, statusCode := range sentinelStatusCodes {
			if errors.Is(err, sentinel) {
				code = statusCode
				message = sentinel.Error()
				break
			}
		}
		if code == http.StatusInternalServerError {
			logger.Error("unexpected error", zap.Error(err))
		} else {
			logger.Warn("request failed", zap.Int("code", code), zap.Error(err))
		}
	}

	response := &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	}
	return ctx.JSON(code, response)
}

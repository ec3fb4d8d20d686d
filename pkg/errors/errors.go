package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// JWT and tokens
	ErrInvalidSigningMethod = errors.New("unexpected token signing method")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token has expired")
	ErrTokenNotYetValid     = errors.New("token is not valid yet")
	ErrTokenIsNotRefresh    = errors.New("token is not a refresh token")
	ErrTokenIsNotAccess     = errors.New("token is not an access token")

	// Authorization
	ErrEmptyAuthHeader    = errors.New("authorization header is missing")
	ErrInvalidAuthHeader  = errors.New("authorization header has invalid format")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access denied")

	// Request context
	ErrUserIDNotFoundInContext = errors.New("user id not found in request context")

	// Common
	ErrNotFound   = errors.New("record not found")
	ErrConflict   = errors.New("record already exists")
	ErrBadRequest = errors.New("bad request")
)

// HttpError carries the HTTP status and a user-facing message alongside the
// internal error. Controllers build these at the call site; utils.ErrorResponse
// unwraps them into the JSON envelope.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

func NewInternalError(message string) *HttpError {
	return &HttpError{Code: http.StatusInternalServerError, Message: message}
}

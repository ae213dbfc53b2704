package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/skycast/internal/pkg/logger"
	"github.com/xyz-asif/skycast/internal/pkg/validator"
	apperrors "github.com/xyz-asif/skycast/pkg/errors"
)

// ErrorResponse represents a standard error payload returned by the API
type ErrorResponse struct {
	Success    bool   `json:"success" example:"false"`
	StatusCode int    `json:"statusCode" example:"401"`
	Message    string `json:"message" example:"Invalid token"`
	Code       string `json:"code,omitempty" example:"UNAUTHORIZED"`
}

// Success sends a 200 OK response with the resource as the body
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 Created response with the resource as the body
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error sends an error response with custom status code and message
func Error(c *gin.Context, statusCode int, message string, errorCode ...string) {
	code := ""
	if len(errorCode) > 0 {
		code = errorCode[0]
	}

	c.JSON(statusCode, ErrorResponse{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	})
}

// FromError translates a service error into its HTTP status and message.
// Unexpected errors are logged and answered with a generic 500.
func FromError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.L().Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("requestId", c.GetString("requestID")).
			Msg("request failed")
	}
	_ = c.Error(err)
	Error(c, status, apperrors.Message(err), apperrors.Code(err))
}

// BadRequest sends a 400 Bad Request error
func BadRequest(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusBadRequest, message, errorCode...)
}

// Unauthorized sends a 401 Unauthorized error
func Unauthorized(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusUnauthorized, message, errorCode...)
}

// TooManyRequests sends a 429 error
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, message, "RATE_LIMITED")
}

// ServiceUnavailable sends a 503 Service Unavailable error
func ServiceUnavailable(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusServiceUnavailable, message, errorCode...)
}

// BindJSONError answers a body that could not be decoded, naming the
// offending field when the decoder reports one.
func BindJSONError(c *gin.Context, err error) {
	BadRequest(c, validator.BindingMessage(err), "INVALID_JSON")
}

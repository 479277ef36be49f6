// Package httputil maps domain errors to JSON error responses.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/secretdrop/secretdrop/internal/errors"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

type errorMapping struct {
	status  int
	message string
}

// errorMappings gives each error kind its status and public message. An empty message
// means the error text itself is safe to show.
var errorMappings = map[apperrors.Kind]errorMapping{
	apperrors.KindNotFound:     {http.StatusNotFound, "The requested resource was not found"},
	apperrors.KindForbidden:    {http.StatusForbidden, "You don't have permission to access this resource"},
	apperrors.KindInvalidInput: {http.StatusUnprocessableEntity, ""},
	apperrors.KindConflict:     {http.StatusConflict, "A conflict occurred with existing data"},
	apperrors.KindUnavailable:  {http.StatusServiceUnavailable, "The service is temporarily unavailable, try again later"},
	apperrors.KindInternal:     {http.StatusInternalServerError, "An internal error occurred"},
}

// HandleErrorGin classifies err and writes the matching JSON error. Unclassified errors
// become a 500 whose body carries no detail.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	kind := apperrors.KindOf(err)
	mapping := errorMappings[kind]
	response := ErrorResponse{Error: string(kind), Message: mapping.message}
	if response.Message == "" {
		response.Message = err.Error()
	}

	if logger != nil {
		level := slog.LevelWarn
		if mapping.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			slog.Int("status_code", mapping.status),
			slog.String("error_code", response.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(mapping.status, response)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation errors.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brecho/backend/internal/domain/shared"
	"github.com/brecho/backend/internal/infrastructure/logger"
	"github.com/brecho/backend/internal/interfaces/http/dto"
	"github.com/brecho/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with an explicit status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// RespondError classifies an error from the application layer and writes
// the matching response: domain errors map through their code, binding
// errors become 400s, anything else is a 500.
func (h *BaseHandler) RespondError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}
	logger.GetGinLogger(c).Error("unhandled error in handler", zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// BindJSON binds the request body, writing a validation response on failure
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			middleware.HandleValidationError(c, err)
			return false
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid request body")
		return false
	}
	return true
}

// laneID parses the :laneId path parameter
func laneID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("laneId"))
}

// Package handler adapts the application services to gin.
//
// Mutating endpoints answer with the dto.Result envelope; reads return the
// entity or page directly. Every failure goes through BaseHandler.Fail.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/b2bprocure/backend/internal/domain/identity"
	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/b2bprocure/backend/internal/infrastructure/logger"
	"github.com/b2bprocure/backend/internal/interfaces/http/dto"
	"github.com/b2bprocure/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// principal returns the caller resolved by the auth middleware
func principal(c *gin.Context) identity.Principal {
	return middleware.GetPrincipal(c)
}

// bindJSON decodes and validates the body, answering 400 itself on failure
func (h *BaseHandler) bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// bindQuery decodes and validates the query string, answering 400 itself on failure
func (h *BaseHandler) bindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// OK sends a mutating operation's envelope
func (h *BaseHandler) OK(c *gin.Context, result dto.Result) {
	c.JSON(http.StatusOK, result)
}

// Data sends a read result as is
func (h *BaseHandler) Data(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Fail converts err into the failure envelope with the status of its code.
// Errors without a domain code are logged and reported as 500.
func (h *BaseHandler) Fail(c *gin.Context, err error) {
	_ = c.Error(err)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.AbortWithStatusJSON(dto.GetHTTPStatus(domainErr.Code), dto.Failed(domainErr.Code, domainErr.Message))
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, dto.Failed(dto.ErrCodeInternal, "Request timed out"))
		return
	}

	logger.GetGinLogger(c).Error("request failed", zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Failed(dto.ErrCodeInternal, "Internal server error"))
}

// parseOptionalUUID parses an optional id taken from the query string.
// The value is expected to be validated by its binding tag already.
func parseOptionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

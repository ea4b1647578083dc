// Package handler contains the gin handlers of the back-office API. Handlers
// bind and validate requests, call one application service and write the
// standard response envelope.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// dateLayout is the wire format of calendar dates
const dateLayout = "2006-01-02"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return c.GetString(logger.GinRequestIDKey)
}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response with a localized "<entity> created" message
func (h *BaseHandler) Created(c *gin.Context, data any, entity i18n.Entity) {
	c.JSON(http.StatusCreated, dto.NewMessageResponse(data, actionMessage(c, entity, i18n.ActionCreated)))
}

// Done sends a 200 response with a localized "<entity> <action>" message
func (h *BaseHandler) Done(c *gin.Context, data any, entity i18n.Entity, action i18n.Action) {
	c.JSON(http.StatusOK, dto.NewMessageResponse(data, actionMessage(c, entity, action)))
}

// Message sends a 200 response with a standalone catalog message
func (h *BaseHandler) Message(c *gin.Context, data any, key string) {
	message := key
	if tr := middleware.GetTranslator(c); tr != nil {
		message = tr.T(middleware.GetLocale(c), key)
	}
	c.JSON(http.StatusOK, dto.NewMessageResponse(data, message))
}

func actionMessage(c *gin.Context, entity i18n.Entity, action i18n.Action) string {
	tr := middleware.GetTranslator(c)
	if tr == nil {
		return ""
	}
	return tr.Action(middleware.GetLocale(c), entity, action)
}

// paginated sends a page with its meta block
func paginated[T any](c *gin.Context, page shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}

// Error sends an error response with a localized message
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, fallback string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, middleware.LocalizeError(c, code, fallback), getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
}

// ValidationError sends a 400 validation error response with field details
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleError maps a domain error to its status via the error table. Any
// other error is logged and reported as a generic 500 without its text.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	logger.GetGinLogger(c).Error("Request failed", zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// bindID reads the :id path parameter. A malformed ID is reported as a
// validation error.
func (h *BaseHandler) bindID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.ValidationError(c, err)
		return uuid.Nil, false
	}
	return uuid.MustParse(req.ID), true
}

// bindJSON binds and validates the request body
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.ValidationError(c, err)
		return false
	}
	return true
}

// bindQuery binds and validates query parameters
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.ValidationError(c, err)
		return false
	}
	return true
}

// parseDate parses a validated YYYY-MM-DD value. Empty means today.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Now().UTC()
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}

// optionalDate parses a validated YYYY-MM-DD value, nil when empty
func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// endOfDay turns an inclusive date filter into an instant at the end of that day
func endOfDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	end := t.Add(24*time.Hour - time.Nanosecond)
	return &end
}

// optionalUUID parses a validated UUID value, nil when empty
func optionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

// boolOr returns *b, or def when the field was omitted
func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

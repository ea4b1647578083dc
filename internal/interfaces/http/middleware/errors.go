package middleware

import (
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// abortWithError stops the chain with the standard error envelope. The
// message is localized when a translator is on the context.
func abortWithError(c *gin.Context, status int, code, fallback string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, LocalizeError(c, code, fallback), c.GetString(logger.GinRequestIDKey)))
}

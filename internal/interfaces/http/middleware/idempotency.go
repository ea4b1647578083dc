package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client-chosen key of a write request
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// KeyStore claims request keys. See cache.KeyStore.
type KeyStore interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Idempotency rejects a write whose Idempotency-Key was already used by the
// same user on the same path within ttl. Reads and requests without the
// header pass through. A request that ends in a 4xx or 5xx, or panics,
// releases its key so the client can retry it. Store errors fail open.
func Idempotency(store KeyStore, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		header := c.GetHeader(IdempotencyKeyHeader)
		if header == "" || !isWrite(c.Request.Method) {
			c.Next()
			return
		}
		if len(header) > maxIdempotencyKeyLength {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Idempotency-Key is too long")
			return
		}

		key := GetJWTUserID(c).String() + ":" + c.Request.Method + " " + c.Request.URL.Path + ":" + header
		ctx := c.Request.Context()
		claimed, err := store.Claim(ctx, key, ttl)
		if err != nil {
			log.Error("Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			abortWithError(c, http.StatusConflict, dto.ErrCodeDuplicateRequest, "This request has already been processed")
			return
		}

		// completed stays false when a handler panics
		completed := false
		defer func() {
			if completed && c.Writer.Status() < http.StatusBadRequest {
				return
			}
			if err := store.Release(context.WithoutCancel(ctx), key); err != nil {
				log.Warn("Failed to release idempotency key", zap.Error(err))
			}
		}()

		c.Next()
		completed = true
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

package middleware

import (
	"net/http"

	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName    string
	Enabled        bool
	TracerProvider trace.TracerProvider // nil uses the global provider
}

// Tracing starts a server span per request through otelgin. The span name
// is the route pattern, e.g. "GET /api/v1/ledger/accounts/:id".
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	var opts []otelgin.Option
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgin.WithTracerProvider(cfg.TracerProvider))
	}
	return otelgin.Middleware(cfg.ServiceName, opts...)
}

// SpanEnricher adds request, user and locale attributes to the active span
// and marks 5xx responses as errors. Place it after JWTAuth and Locale.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if id := c.GetString(logger.GinRequestIDKey); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if id := c.GetString(logger.GinUserIDKey); id != "" {
			span.SetAttributes(attribute.String("user_id", id))
		}
		span.SetAttributes(attribute.String("locale", GetLocale(c).String()))

		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

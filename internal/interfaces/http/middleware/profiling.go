package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Profiling labels CPU samples taken while a request runs with its route
// and method, so profiles can be filtered per endpoint. Health and swagger
// routes are skipped.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || route == "/health" || strings.HasPrefix(route, "/swagger") {
			c.Next()
			return
		}
		labels := pyroscope.Labels(
			"route", route,
			"method", c.Request.Method,
			"module", routeModule(route),
		)
		pyroscope.TagWrapper(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// routeModule returns the first segment after the API prefix:
// "/api/v1/ledger/accounts/:id" is "ledger"
func routeModule(route string) string {
	rest := strings.TrimPrefix(route, "/api/v1/")
	if rest == route {
		return ""
	}
	module, _, _ := strings.Cut(rest, "/")
	return module
}

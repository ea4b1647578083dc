package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
)

// SwaggerProtection hides the API docs when disabled and restricts them to
// the configured IPs or CIDR ranges. An empty list allows everyone.
func SwaggerProtection(cfg config.SwaggerConfig) gin.HandlerFunc {
	var nets []*net.IPNet
	for _, entry := range cfg.AllowedIPs {
		if !strings.Contains(entry, "/") {
			if strings.Contains(entry, ":") {
				entry += "/128"
			} else {
				entry += "/32"
			}
		}
		if _, n, err := net.ParseCIDR(entry); err == nil {
			nets = append(nets, n)
		}
	}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			abortWithError(c, http.StatusNotFound, "NOT_FOUND", "API documentation is not available")
			return
		}
		if len(cfg.AllowedIPs) > 0 && !ipAllowed(net.ParseIP(c.ClientIP()), nets) {
			abortWithError(c, http.StatusForbidden, "FORBIDDEN", "Access to API documentation is restricted")
			return
		}
		c.Next()
	}
}

func ipAllowed(ip net.IP, nets []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

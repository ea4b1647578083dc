package middleware

import (
	"net/http"

	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	Logger *zap.Logger
}

// RequirePermission lets the request through when the token grants any of
// the listed permissions. It must run after JWTAuth.
func RequirePermission(permissions ...identity.Permission) gin.HandlerFunc {
	return RequirePermissionWithConfig(PermissionConfig{}, permissions...)
}

// RequirePermissionWithConfig is RequirePermission with denial logging
func RequirePermissionWithConfig(cfg PermissionConfig, permissions ...identity.Permission) gin.HandlerFunc {
	required := permissionStrings(permissions)
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			denyPermission(c, cfg, required, "no authentication claims")
			return
		}
		if !claims.HasAnyPermission(required...) {
			denyPermission(c, cfg, required, "missing permission")
			return
		}
		c.Next()
	}
}

// RequireAllPermissions lets the request through only when every listed
// permission is granted
func RequireAllPermissions(permissions ...identity.Permission) gin.HandlerFunc {
	required := permissionStrings(permissions)
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			denyPermission(c, PermissionConfig{}, required, "no authentication claims")
			return
		}
		for _, p := range required {
			if !claims.HasPermission(p) {
				denyPermission(c, PermissionConfig{}, required, "missing permission")
				return
			}
		}
		c.Next()
	}
}

func permissionStrings(perms []identity.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

func denyPermission(c *gin.Context, cfg PermissionConfig, required []string, reason string) {
	if cfg.Logger != nil {
		userID := ""
		if claims := GetJWTClaims(c); claims != nil {
			userID = claims.UserID
		}
		cfg.Logger.Warn("Permission denied",
			zap.String("reason", reason),
			zap.String("user_id", userID),
			zap.Strings("required_permissions", required),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
	}

	status, code, message := http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action"
	if GetJWTClaims(c) == nil {
		status, code, message = http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required"
	}
	abortWithError(c, status, code, message)
}

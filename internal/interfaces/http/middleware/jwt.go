package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// TokenBlacklist is optional; without it logout is client-side only
	TokenBlacklist auth.TokenBlacklist
	// SkipPaths are exact paths served without a token
	SkipPaths []string
	// SkipPathPrefixes are path prefixes served without a token
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(jwtService *auth.JWTService, blacklist auth.TokenBlacklist, log *zap.Logger) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		SkipPathPrefixes: []string{"/swagger"},
		Logger:           log,
	}
}

// JWTAuth validates the bearer token, checks revocation and stores the
// claims. The user ID is also put on the request context for logging.
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range cfg.SkipPaths {
			if path == p {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			rejectToken(c, log, auth.ErrInvalidToken, "missing or malformed authorization header")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			rejectToken(c, log, err, "token validation failed")
			return
		}

		if cfg.TokenBlacklist != nil && revoked(c, log, cfg.TokenBlacklist, claims) {
			rejectToken(c, log, auth.ErrTokenBlacklisted, "token revoked")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(logger.GinUserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

// revoked fails open: a blacklist outage is logged and the token accepted
func revoked(c *gin.Context, log *zap.Logger, blacklist auth.TokenBlacklist, claims *auth.Claims) bool {
	ctx := c.Request.Context()
	if claims.ID != "" {
		blacklisted, err := blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			log.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
		} else if blacklisted {
			return true
		}
	}
	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		log.Error("Failed to check user token invalidation", zap.String("user_id", claims.UserID), zap.Error(err))
		return false
	}
	return invalidated
}

func rejectToken(c *gin.Context, log *zap.Logger, err error, reason string) {
	log.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
	)

	code, message := "UNAUTHORIZED", "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = "TOKEN_EXPIRED", "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code, message = "TOKEN_REVOKED", "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidTokenType), errors.Is(err, auth.ErrTokenNotYetValid):
		code, message = "TOKEN_INVALID", "Invalid token"
	}
	abortWithError(c, http.StatusUnauthorized, code, message)
}

// GetJWTClaims returns the validated claims, or nil on public routes
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetJWTUserID returns the authenticated user ID, or uuid.Nil
func GetJWTUserID(c *gin.Context) uuid.UUID {
	claims := GetJWTClaims(c)
	if claims == nil {
		return uuid.Nil
	}
	id, err := claims.GetUserUUID()
	if err != nil {
		return uuid.Nil
	}
	return id
}

// GetActor returns the audit actor for the authenticated user. Unauthenticated
// requests act as the system.
func GetActor(c *gin.Context) audit.Actor {
	claims := GetJWTClaims(c)
	if claims == nil {
		return audit.SystemActor
	}
	id, err := claims.GetUserUUID()
	if err != nil {
		return audit.SystemActor
	}
	return audit.Actor{ID: id, Email: claims.Email}
}

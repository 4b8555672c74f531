package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/policy"
)

const (
	actorKey = "actor"
	tokenKey = "token"
)

// AuthMiddleware resolves bearer tokens to actors
type AuthMiddleware struct {
	service service.AuthService
	logger  *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware instance
func NewAuthMiddleware(service service.AuthService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		service: service,
		logger:  logger,
	}
}

// RequireAuth validates the token, loads the user and sets the actor in context
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.logger.Warn("⚠️ [Middleware] Missing Authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			m.logger.Warn("⚠️ [Middleware] Invalid Authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		tokenString := parts[1]

		actor, err := m.service.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, policy.ErrUnauthenticated) {
				m.logger.Warn("⚠️ [Middleware] Invalid token", "error", err)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
				return
			}
			LoggerFrom(c, m.logger).Error("❌ [Middleware] Authentication failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred."})
			return
		}

		c.Set(actorKey, actor)
		c.Set(tokenKey, tokenString)
		m.logger.Debug("✅ [Middleware] Token validated", "user_id", actor.ID)

		c.Next()
	}
}

// ActorFrom returns the authenticated actor, or policy.Anonymous
func ActorFrom(c *gin.Context) policy.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(policy.Actor); ok {
			return actor
		}
	}
	return policy.Anonymous
}

// TokenFrom returns the raw bearer token accepted by RequireAuth
func TokenFrom(c *gin.Context) string {
	return c.GetString(tokenKey)
}

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialshowcase/backend/cache"
	"github.com/socialshowcase/backend/config"
	"github.com/socialshowcase/backend/model"
)

const (
	UserIDKey = "user_id"
	RoleKey   = "role"
)

// Auth validates the Bearer JWT token and checks the session cache, so a
// logout invalidates the token before its expiry.
func Auth(sec config.SecurityConfig, c cache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims, err := ParseToken(tokenStr, sec.JWTSecret)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		sessionKey := "session:" + tokenStr
		cacheCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		exists, err := c.Exists(cacheCtx, sessionKey)
		if err != nil || !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		ctx.Set(UserIDKey, claims.UserID)
		ctx.Set(RoleKey, claims.Role)
		ctx.Next()
	}
}

// AdminOnly rejects requests whose authenticated role is not admin.
// It must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if GetRole(ctx) != model.RoleAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin required"})
			return
		}
		ctx.Next()
	}
}

// GetUserID retrieves the authenticated user ID from the Gin context.
func GetUserID(c *gin.Context) string {
	if v, exists := c.Get(UserIDKey); exists {
		return v.(string)
	}
	return ""
}

// GetRole retrieves the authenticated role from the Gin context.
func GetRole(c *gin.Context) model.Role {
	if v, exists := c.Get(RoleKey); exists {
		return v.(model.Role)
	}
	return model.RoleUser
}

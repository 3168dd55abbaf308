package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbboard/backend/utils"
)

const (
	// ContextUserIDKey is the key used to store the authenticated user ID in the Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside the Gin context.
	ContextUsernameKey = "username"
	// ContextIsStaffKey stores the staff flag from the token claims.
	ContextIsStaffKey = "is_staff"
)

// AuthRequired ensures the request carries a valid, non-revoked bearer JWT
// issued by the external auth service. It runs before any business logic.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.AbortError(ctx, http.StatusUnauthorized, "authorization header missing")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.AbortError(ctx, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.AbortError(ctx, http.StatusUnauthorized, "empty bearer token")
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			utils.AbortError(ctx, http.StatusUnauthorized, "token revoked")
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.AbortError(ctx, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextIsStaffKey, claims.IsStaff)
		ctx.Next()
	}
}

// UserID returns the authenticated user's id from the Gin context.
func UserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

// IsStaff reports whether the authenticated user carries the staff flag.
func IsStaff(ctx *gin.Context) bool {
	value, exists := ctx.Get(ContextIsStaffKey)
	if !exists {
		return false
	}
	staff, _ := value.(bool)
	return staff
}

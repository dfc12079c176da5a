package middleware

import (
	"net/http"
	"strings"

	"room-rental-backend/internal/models"
	"room-rental-backend/internal/service"
	"room-rental-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ctxUID          = "uid"
	ctxRole         = "role"
	ctxTenantRoomID = "tenantRoomID"
)

// AuthMiddleware validates JWT access token from Authorization header
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		// Check Bearer prefix
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
			c.Abort()
			return
		}

		token := parts[1]

		// Validate token
		claims, err := utils.ValidateAccessToken(token)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		// Inject actor context
		c.Set(ctxUID, claims.UID)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxTenantRoomID, claims.TenantRoomID)

		c.Next()
	}
}

// RequireLandlord checks if the authenticated actor holds the landlord role
func RequireLandlord() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ctxRole)
		if !exists {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		if role != models.RoleLandlord {
			utils.ErrorResponse(c, http.StatusForbidden, "Landlord access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentActor rebuilds the actor context injected by AuthMiddleware.
// The zero Actor (no uid, no role) is returned for unauthenticated requests
// and passes no permission check.
func CurrentActor(c *gin.Context) service.Actor {
	return service.Actor{
		UID:          c.GetString(ctxUID),
		Role:         c.GetString(ctxRole),
		TenantRoomID: c.GetString(ctxTenantRoomID),
	}
}

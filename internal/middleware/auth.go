package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"salonflow-backend/internal/models"
	"salonflow-backend/pkg/utils"
)

// Context keys set by AuthMiddleware. Every handler trusts these values and
// scopes its queries by the resolved salon id.
const (
	CtxCollaboratorID = "collaboratorID"
	CtxSalonID        = "salonID"
	CtxRole           = "role"
)

// AuthMiddleware resolves the caller identity from the bearer token:
// (salon id, collaborator id, role).
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.APIError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Missing token")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.APIError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Malformed authorization header")
			c.Abort()
			return
		}

		token, err := utils.ValidateToken(parts[1])
		if err != nil || !token.Valid {
			utils.APIError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			utils.APIError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid token claims")
			c.Abort()
			return
		}

		// JWT numbers decode as float64.
		var collaboratorID, salonID uint64
		if val, ok := claims["collaborator_id"].(float64); ok {
			collaboratorID = uint64(val)
		}
		if val, ok := claims["salon_id"].(float64); ok {
			salonID = uint64(val)
		}
		role, _ := claims["role"].(string)

		if salonID == 0 || collaboratorID == 0 {
			utils.APIError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid token claims")
			c.Abort()
			return
		}

		c.Set(CtxCollaboratorID, collaboratorID)
		c.Set(CtxSalonID, salonID)
		c.Set(CtxRole, models.Role(role))

		c.Next()
	}
}

// Allowed is the permission decision for an action. Scheduling and billing
// are open to any authenticated salon member; destructive catalog operations
// require the manager role.
func Allowed(role models.Role, action string) bool {
	switch action {
	case "catalog.delete", "collaborator.delete":
		return role == models.RoleManager
	}
	return true
}

// RequirePermission gates a route on Allowed.
func RequirePermission(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxRole)
		if !exists || !Allowed(role.(models.Role), action) {
			utils.APIError(c, http.StatusForbidden, "PERMISSION_DENIED", "Action not allowed for this role")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SalonID reads the tenant scope resolved by AuthMiddleware.
func SalonID(c *gin.Context) uint64 {
	v, _ := c.Get(CtxSalonID)
	id, _ := v.(uint64)
	return id
}

// CollaboratorID reads the caller's staff id.
func CollaboratorID(c *gin.Context) uint64 {
	v, _ := c.Get(CtxCollaboratorID)
	id, _ := v.(uint64)
	return id
}

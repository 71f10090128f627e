package middleware

import (
	"net/http"

	"school_management/internal/model"
	"school_management/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole reports whether the claimed role, case-normalized, is allowed
func RequireRole(claims *utils.Claims, allowed ...string) bool {
	if claims == nil {
		return false
	}
	role := model.NormalizeRole(claims.Role)
	if role == "" {
		return false
	}
	for _, a := range allowed {
		if role == model.NormalizeRole(a) {
			return true
		}
	}
	return false
}

// RoleMiddleware creates a middleware to check for specific user roles.
// ProfileMiddleware must run first.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !RequireRole(ClaimsFrom(c), allowedRoles...) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// AdminMiddleware checks if the user is an admin
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}

// StaffMiddleware allows admins and teachers
func StaffMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin, model.RoleTeacher)
}

// MemberMiddleware allows any of the three school roles
func MemberMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin, model.RoleTeacher, model.RoleStudent)
}

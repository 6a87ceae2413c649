package middleware

import (
	"net/http"

	"bizbook/internal/model"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware creates a middleware to check for specific user roles
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not found in token, ensure JWT middleware runs first"})
			return
		}

		userRole, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid role type in token"})
			return
		}

		isAllowed := false
		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}

		c.Next()
	}
}

// AdminMiddleware checks if the user is the platform admin
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}

// OwnerMiddleware restricts a route to business owners
func OwnerMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleOwner)
}

// RequirePermission lets owners and admins through unconditionally and checks
// subusers against their granted permission list.
func RequirePermission(perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not found in token, ensure JWT middleware runs first"})
			return
		}
		role, _ := roleVal.(string)
		if role == model.RoleOwner || role == model.RoleAdmin {
			c.Next()
			return
		}

		permsVal, _ := c.Get(AuthPermsKey)
		perms, _ := permsVal.([]string)
		for _, p := range perms {
			if p == perm {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
	}
}

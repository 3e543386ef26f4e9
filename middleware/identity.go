package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Identity pulls the caller's id and role out of the trusted headers
// set by the upstream gateway. No credential verification happens
// here; the gateway owns that.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawID := c.GetHeader("X-User-Id")
		if rawID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-Id header required"})
			c.Abort()
			return
		}

		id, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil || id == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid X-User-Id header"})
			c.Abort()
			return
		}

		c.Set("user_id", uint(id))
		c.Set("role", c.GetHeader("X-User-Role"))
		c.Next()
	}
}

func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not found in context"})
			c.Abort()
			return
		}

		userRole := role.(string)
		isAllowed := false
		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// UserID reads the caller id set by Identity.
func UserID(c *gin.Context) uint {
	v, _ := c.Get("user_id")
	id, _ := v.(uint)
	return id
}

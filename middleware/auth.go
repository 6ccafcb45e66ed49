package middleware

import (
	"strings"

	"urbanhaven/response"
	"urbanhaven/services"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the acting user from the bearer token and
// optionally restricts the route to the given roles
func AuthMiddleware(roles ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		userID, userRole, err := services.GetUserIDFromToken(tokenString)
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		if len(roles) > 0 {
			hasRole := false
			for _, role := range roles {
				if role == userRole {
					hasRole = true
					break
				}
			}
			if !hasRole {
				response.Forbidden(c)
				c.Abort()
				return
			}
		}

		c.Set("userID", userID)
		c.Set("userRole", userRole)
		c.Next()
	}
}

// ActorFromContext returns the authenticated actor stored by AuthMiddleware
func ActorFromContext(c *gin.Context) (uint, int, bool) {
	userID, okID := c.Get("userID")
	userRole, okRole := c.Get("userRole")
	if !okID || !okRole {
		return 0, 0, false
	}
	return userID.(uint), userRole.(int), true
}

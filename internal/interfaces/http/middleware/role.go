package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Marketplace roles carried in JWT claims.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// RequireSeller rejects requests whose JWT claims do not carry the
// seller role. Must run after JWTAuthMiddleware.
func RequireSeller() gin.HandlerFunc {
	return RequireRole(RoleSeller)
}

// RequireRole rejects requests whose JWT claims do not carry the given role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}

		if claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "This operation requires the " + role + " role",
				},
			})
			return
		}

		c.Next()
	}
}

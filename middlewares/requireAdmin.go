package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, exists := IdentityFrom(ctx)
		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not found in context"})
			return
		}

		if !identity.IsAdmin() {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Admin access required"})
			return
		}

		ctx.Next()
	}
}

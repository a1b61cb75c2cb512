package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireCapability lets the request through when the caller holds
// capability. Anonymous callers get 401, others 403.
func RequireCapability(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := Caller(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !identity.Has(capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// VerifyWebhookSecret gates the voice webhook endpoints behind a shared
// secret. An empty secret disables the check.
func VerifyWebhookSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret != "" && c.GetHeader("X-Vapi-Secret") != secret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

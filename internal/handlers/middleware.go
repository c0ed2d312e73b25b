package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// webhookTokenMiddleware enforces the shared-secret bearer token on the
// webhook and API surface. A missing secret in config disables the guard
// entirely (local/testing setups).
func (h *Handler) webhookTokenMiddleware(c *gin.Context) {
	if !h.services.WebhookAuth.Enabled() {
		c.Next()
		return
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	if err := h.services.WebhookAuth.VerifyToken(parts[1]); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Next()
}

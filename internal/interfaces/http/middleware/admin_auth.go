package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/outfit/partner-api/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminTokenHeader carries the static token guarding the admin surface
const AdminTokenHeader = "X-Outfit-Admin-Token"

// AdminAuthMiddleware guards partner provisioning endpoints with a static
// admin token. An empty configured token fails closed: every request is
// rejected until the operator sets one.
func AdminAuthMiddleware(adminToken string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Admin surface is not configured"))
			return
		}

		provided := c.GetHeader(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(adminToken)) != 1 {
			if log != nil {
				log.Warn("Admin authentication failed",
					zap.String("path", c.Request.URL.Path),
					zap.String("client_ip", c.ClientIP()),
				)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Invalid admin token"))
			return
		}

		c.Next()
	}
}

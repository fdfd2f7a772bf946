package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Snomn123/Whatsapp-layout/internal/auth"
	"github.com/Snomn123/Whatsapp-layout/pkg/log"
	"github.com/Snomn123/Whatsapp-layout/pkg/response"
)

const bearerPrefix = "Bearer "

// RequireAuth validates the bearer token and stores the caller's identity in
// the gin context.
func RequireAuth(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			response.Unauthorized(c, "invalid authorization format")
			c.Abort()
			return
		}

		claims, err := tokens.Validate(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(log.FieldUserID, claims.UserID)
		c.Set(log.FieldUsername, claims.Username)
		c.Next()
	}
}

// UserID extracts the authenticated user id from the gin context.
func UserID(c *gin.Context) uint {
	if id, exists := c.Get(log.FieldUserID); exists {
		if uid, ok := id.(uint); ok {
			return uid
		}
	}
	return 0
}

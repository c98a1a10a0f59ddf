package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/teamhub/teamhub-api/internal/constants"
	apierrors "github.com/teamhub/teamhub-api/internal/errors"
	"github.com/teamhub/teamhub-api/internal/utils"
)

// RequireAuth checks if the user is authenticated. A session cookie is
// checked first; non-browser clients may instead present a Bearer access
// token.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)

		if userID != nil {
			c.Set(constants.ContextKeyUserID, userID)
			c.Next()
			return
		}

		if claims, ok := bearerClaims(c); ok {
			c.Set(constants.ContextKeyUserID, claims.UserID)
			c.Next()
			return
		}

		apierrors.Unauthorized(c, "")
		c.Abort()
	}
}

// bearerClaims parses an Authorization: Bearer header, if present and valid.
func bearerClaims(c *gin.Context) (*utils.Claims, bool) {
	authHeader := c.Request.Header.Get("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := utils.ParseAccessToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

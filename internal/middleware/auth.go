// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/bizease/bizease-backend/internal/i18n"
	"github.com/bizease/bizease-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

func bearerClaims(c *gin.Context) (*utils.JWTClaims, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, i18n.KeyAuthRequired
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, i18n.KeyAuthInvalidToken
	}

	claims, err := utils.ValidateJWT(parts[1])
	if err != nil || claims.UserID == "" {
		return nil, i18n.KeyAuthTokenExpired
	}
	return claims, ""
}

func setIdentity(c *gin.Context, claims *utils.JWTClaims) {
	c.Set("user_id", claims.UserID)
	c.Set("user_name", claims.Name)
	c.Set("user_email", claims.Email)
	c.Set("is_verified", claims.IsVerified)
}

func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, failure := bearerClaims(c)
		if claims == nil {
			utils.UnauthorizedResponse(c, i18n.T(utils.GetLangFromContext(c), failure))
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid token is sent and
// lets anonymous requests through otherwise.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, _ := bearerClaims(c); claims != nil {
			setIdentity(c, claims)
		}
		c.Next()
	}
}
